// Package catalog holds the fixed step/question layout of the onboarding form.
// It is read-only configuration used to name uploaded files.
package catalog

// MinQuestion and MaxQuestion bound the question numbers accepted by uploads.
const (
	MinQuestion = 0
	MaxQuestion = 18
)

// QuestionRef is a question as it appears inside its step.
type QuestionRef struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
}

// Step groups consecutive questions under a title.
type Step struct {
	Step      int           `json:"step"`
	Title     string        `json:"title"`
	Questions []QuestionRef `json:"questions"`
}

// Question is the flattened view of a question with its step metadata.
type Question struct {
	Step           int    `json:"step"`
	StepTitle      string `json:"stepTitle"`
	QuestionNumber int    `json:"questionNumber"`
	QuestionTitle  string `json:"questionTitle"`
}

var steps = []Step{
	{Step: 1, Title: "Información de la Empresa", Questions: []QuestionRef{
		{Number: 0, Title: "Nombre de la empresa"},
		{Number: 1, Title: "Historia de la empresa"},
		{Number: 2, Title: "Descripción del producto o servicio"},
		{Number: 3, Title: "Público objetivo general"},
		{Number: 4, Title: "Precio o rango de precios"},
	}},
	{Step: 2, Title: "Identidad visual", Questions: []QuestionRef{
		{Number: 5, Title: "Manual de marca (si existe)"},
		{Number: 6, Title: "Logo en alta resolución"},
		{Number: 7, Title: "Paleta de colores"},
		{Number: 8, Title: "Tipografías"},
	}},
	{Step: 3, Title: "Recursos visuales", Questions: []QuestionRef{
		{Number: 9, Title: "Fotografías del producto, servicio o equipo"},
		{Number: 10, Title: "Videos disponibles"},
		{Number: 11, Title: "Testimonios de éxito"},
		{Number: 12, Title: "Material gráfico adicional"},
	}},
	{Step: 4, Title: "Accesos", Questions: []QuestionRef{
		{Number: 13, Title: "Accesos a redes sociales"},
		{Number: 14, Title: "Acceso a Business Manager"},
		{Number: 15, Title: "Acceso a Hotmart"},
	}},
	{Step: 5, Title: "Adicionales", Questions: []QuestionRef{
		{Number: 16, Title: "Material educativo (PDFs, documentos, recursos base)"},
		{Number: 17, Title: "Información relevante que consideren importante comunicar"},
		{Number: 18, Title: "Nombre del dominio que tiene o desea"},
	}},
}

var byNumber = index()

func index() map[int]Question {
	m := make(map[int]Question)
	for _, q := range Questions() {
		m[q.QuestionNumber] = q
	}
	return m
}

// Steps returns a copy of the form steps in order.
func Steps() []Step {
	out := make([]Step, len(steps))
	for i, s := range steps {
		s.Questions = append([]QuestionRef(nil), s.Questions...)
		out[i] = s
	}
	return out
}

// Questions returns every question in form order with its step number and title.
func Questions() []Question {
	out := make([]Question, 0, MaxQuestion+1)
	for _, s := range steps {
		for _, q := range s.Questions {
			out = append(out, Question{
				Step:           s.Step,
				StepTitle:      s.Title,
				QuestionNumber: q.Number,
				QuestionTitle:  q.Title,
			})
		}
	}
	return out
}

// Lookup finds a question by number.
func Lookup(q int) (Question, bool) {
	question, ok := byNumber[q]
	return question, ok
}

// ValidQuestion reports whether q is inside the accepted range.
func ValidQuestion(q int) bool {
	return q >= MinQuestion && q <= MaxQuestion
}
