package generator

import (
	"math/rand/v2"
)

// PhraseSource returns a candidate series title.
type PhraseSource func(r *rand.Rand) string

// NameSource returns a person name.
type NameSource func(r *rand.Rand) string

var phraseNouns = []string{
	"Adaptador", "Algoritmo", "Alianza", "Aplicación", "Arquitectura", "Base", "Capacidad",
	"Circuito", "Codificación", "Concepto", "Conjunto", "Emulación", "Enfoque", "Estrategia",
	"Estructura", "Extranet", "Fuerza de trabajo", "Función", "Hardware", "Implementación",
	"Iniciativa", "Interfaz", "Jerarquía", "Marco", "Matriz", "Metodología", "Modelo",
	"Moderador", "Núcleo", "Orquestador", "Paradigma", "Plataforma", "Política", "Proceso",
	"Producto", "Protocolo", "Proyección", "Red", "Sinergia", "Sistema", "Solución", "Utilidad",
}

var phraseAdjectives = []string{
	"adaptable", "avanzado", "asimilado", "automatizado", "centralizado", "compartible",
	"compatible", "configurable", "descentralizado", "digitalizado", "distribuido", "diverso",
	"ergonómico", "exclusivo", "expandido", "extendido", "fundamental", "horizontal",
	"implementado", "innovador", "integrado", "intuitivo", "inverso", "mejorado", "monitorizado",
	"multicanal", "opcional", "orgánico", "persistente", "polarizado", "proactivo", "programable",
	"reactivo", "robusto", "seguro", "sincronizado", "universal", "virtual", "visionario",
}

var phraseQualifiers = []string{
	"24 horas", "24/7", "de tercera generación", "de cuarta generación", "de quinta generación",
	"de sexta generación", "analizada", "asimétrica", "asíncrona", "de alto nivel",
	"de ancho de banda", "de bajo nivel", "de código abierto", "de misión crítica",
	"en tiempo real", "dinámica", "direccional", "heurística", "holística", "incremental",
	"interactiva", "local", "logística", "modular", "motivadora", "multimedia", "neutral",
	"no-volátil", "orientada a objetos", "para la gestión", "sensible al contexto", "sistémica",
	"tangible", "uniforme", "web",
}

var givenNames = []string{
	"Adrián", "Alba", "Alejandro", "Ana", "Andrés", "Beatriz", "Carla", "Carlos", "Carmen",
	"Daniel", "David", "Elena", "Eva", "Fernando", "Gonzalo", "Hugo", "Inés", "Irene", "Javier",
	"Jorge", "José", "Julia", "Laura", "Lucía", "Luis", "Manuel", "María", "Marina", "Marta",
	"Miguel", "Nerea", "Pablo", "Paula", "Pedro", "Raquel", "Rocío", "Rubén", "Sara", "Sergio",
	"Sofía", "Teresa", "Víctor",
}

var surnames = []string{
	"Alonso", "Álvarez", "Blanco", "Castillo", "Castro", "Cruz", "Delgado", "Díaz", "Domínguez",
	"Fernández", "García", "Gil", "Gómez", "González", "Gutiérrez", "Hernández", "Iglesias",
	"Jiménez", "León", "López", "Marín", "Martín", "Martínez", "Medina", "Molina", "Moreno",
	"Muñoz", "Navarro", "Núñez", "Ortega", "Pérez", "Ramírez", "Ramos", "Rodríguez", "Romero",
	"Rubio", "Ruiz", "Sánchez", "Santos", "Serrano", "Suárez", "Torres", "Vázquez",
}

// SpanishCatchPhrase builds a noun, adjective and qualifier phrase such as "Interfaz robusto 24/7".
func SpanishCatchPhrase(r *rand.Rand) string {
	return pick(r, phraseNouns) + " " + pick(r, phraseAdjectives) + " " + pick(r, phraseQualifiers)
}

// SpanishName builds a given name followed by two surnames.
func SpanishName(r *rand.Rand) string {
	return pick(r, givenNames) + " " + pick(r, surnames) + " " + pick(r, surnames)
}

func pick(r *rand.Rand, values []string) string {
	return values[r.IntN(len(values))]
}
