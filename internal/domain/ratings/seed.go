package ratings

import "github.com/corey/califica/internal/domain/names"

// RosterCourse lists the professors known to teach a course before any
// user data exists.
type RosterCourse struct {
	Course     string
	Professors []string
}

// Roster is the built-in seed data, in course order.
type Roster []RosterCourse

// BaseCourses are always present in the course list.
var BaseCourses = []string{
	"Cálculo I",
	"Cálculo II",
	"Cálculo III",
	"Álgebra I",
	"Álgebra II",
	"Física I",
	"Física II",
	"Electricidad y Magnetismo",
	"Química",
	"Fundamentos de Economía",
	"Fundamentos de Programación",
	"Ingles",
	"TDI",
	"Analisis Estadistico",
	"Metodos Numericos",
}

// DefaultRoster is the seed roster shipped with the application.
var DefaultRoster = Roster{
	{Course: "Cálculo I", Professors: []string{
		"Moyka Verdugo", "Manuel Avalos", "Karina Matamala", "Nicolas Munoz", "Nestor Ahumada", "Carolina Martinez",
		"Daniel Saa", "Juan Jimenez", "Pedro Avila", "Lina Silva", "Oscar Lopez", "Mauricio Bravo", "Isidro Cornejo",
		"Christian Drogget", "Gerald Torres", "Isabel Escobar", "Osvaldo Baeza", "Pablo Garcia", "Jaime Contreras",
		"Gonzalo Castro", "Diego Carvajal", "Inge Alicera", "Tomas Seguel", "Manuel Galaz", "Victor Castillo",
		"Maria Escobar", "Patricia Cuello",
	}},
	{Course: "Álgebra I", Professors: []string{
		"Gerald Torres", "Nestor Ahumada", "Manuel Avalos", "Marcela Ilabaca", "Ivan Morales", "Pablo Diaz",
		"Jonathan Conejeros", "Alma Armijo", "Gicella Veliz", "Juan Jimenez", "Veronica Angel", "Patricia Limmer",
		"Luis Riveros", "Mario Vega", "Claudio Leal", "Francisco Castillo", "John Baquedano", "Axel Silva",
		"Maritza Cuevas", "Alvaro Hidalgo", "Diego Carvajal", "Jose Molina", "Pedro Avila",
	}},
	{Course: "Física I", Professors: []string{
		"Susana Lagos", "Brayan Alvarez", "Juan Jimenez", "Rodrigo Lopez", "Alberto Navarrete", "Carlos Curin",
		"Francisco Martinez", "Guillermo Fuhrer", "Ariel Angulo", "Nibaldo Cabrini", "Claudio Rojas",
		"Carolina Ibanez", "Rodrigo Canto", "Fernanda Alarcon", "Fernando Castillo", "Natalia Valderrama",
		"Sebastian Bahamondes", "Marcel Lopez", "Javier Enriquez", "Pamela Franco", "Mario Munos Riffo",
		"Victor Pena", "Ricardo Rivera", "Marcia Melendez", "Cecilia Montero", "Daniel Valenzuela",
		"Alemith Geertds", "Rene Zuniga", "Rodrigo Canto Moller",
	}},
	{Course: "Química", Professors: []string{
		"Ruben Pastene", "Mauricio Lucero", "Herna Barrientos", "Andrea Valdebenito", "Karen Brown", "Edmundo Rios",
		"Paulina Palma",
	}},
	{Course: "Cálculo II", Professors: []string{
		"John Baquedano", "Alma Armijo", "Sebastian Puelma", "Cristian Caceres", "Claudio Leal", "Jose Ramirez",
		"Victor Castillo", "Francisco Castillo",
	}},
	{Course: "Álgebra II", Professors: []string{
		"Michael Yanez", "Isidro Cornejo", "Leonardo Rosas", "Francisco Castillo", "Isabel Otarola", "Alma Armijo",
	}},
	{Course: "Física II", Professors: []string{
		"Brayan Alvarez", "Sidney Villagran", "Juan Jimenez", "Marcel Lopez", "Leonardo Bartolo",
		"Carlos Vasconcellos", "Marcia Melendez", "Ricardo Rivera", "Carlos Castillo Rivera", "Moira Venegas",
		"Mauricio Silva",
	}},
	{Course: "Fundamentos de Programación", Professors: []string{
		"Alejandro Cisterna", "Julio Fuentealba", "Cristian Sepulveda", "Juan Gonzales Reyes", "Felipe Fuentes",
		"Matias Tobar", "Carlos Vera", "Javier Salazar",
	}},
	{Course: "Fundamentos de Economía", Professors: []string{
		"Paola Reyes", "Ilse Klapp", "Francisco Anguita", "Felipe Martin", "Felipe Gormaz",
	}},
	{Course: "Cálculo III", Professors: []string{
		"Esteban Gutierrez", "Aldo Zambrano", "Daniel Saa", "Julio Rincon", "Diego Carvajal",
	}},
}

// NormalizeRoster canonicalizes every seeded name and drops same-course
// duplicates, keeping the first occurrence's display form. Entries for the
// same course name are combined.
func NormalizeRoster(r Roster) Roster {
	var out Roster
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)
	for _, rc := range r {
		i, ok := index[rc.Course]
		if !ok {
			i = len(out)
			index[rc.Course] = i
			out = append(out, RosterCourse{Course: rc.Course, Professors: []string{}})
			seen[rc.Course] = make(map[string]bool)
		}
		for _, raw := range rc.Professors {
			display := names.Display(raw)
			key := names.Key(display)
			if seen[rc.Course][key] {
				continue
			}
			seen[rc.Course][key] = true
			out[i].Professors = append(out[i].Professors, display)
		}
	}
	return out
}

// Reconcile merges store, then makes sure every base course and every seeded
// professor exists. Seeded professors are added with no reviews; existing
// professors and their reviews are never modified. Idempotent.
func Reconcile(store *Store, roster Roster, baseCourses []string) *Store {
	seed := NormalizeRoster(roster)
	out := Merge(store)
	for _, name := range baseCourses {
		out.ensureCourse(name)
	}
	for _, rc := range seed {
		course := out.ensureCourse(rc.Course)
		for _, name := range rc.Professors {
			if course.indexOf(names.Key(name)) >= 0 {
				continue
			}
			course.Professors = append(course.Professors, &Professor{Name: name, Reviews: []Review{}})
		}
	}
	return out
}
