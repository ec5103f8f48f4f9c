// Package storecontract holds the behavioural test suite every docstore.Store engine must pass.
// The memory engine runs it unconditionally, the database engines when their test server is configured.
package storecontract
