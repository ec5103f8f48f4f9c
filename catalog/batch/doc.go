// Package batch runs the catalog job: seed the series, run the series reports, build the production
// details from the stored series, and run the reports that join both collections.
//
// Every step receives the store and its settings explicitly. The first failing step ends the run;
// earlier writes stay in place.
package batch
