package models

// DefaultSubjects is the catalog the API serves and the list clients fall back to.
var DefaultSubjects = []string{
	"Matemática",
	"Física",
	"Química",
	"Biologia",
	"História",
	"Geografia",
	"Português",
	"Inglês",
	"Programação",
	"Ciência da Computação",
}
