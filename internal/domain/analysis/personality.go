package analysis

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	AnswerMin     = 1
	AnswerMax     = 5
	AnswerDefault = 3

	DefaultBirthDate = "2000-01-01"
)

var (
	ErrInvalidAnswers = errors.New("invalid personality answers")
	ErrInvalidSignup  = errors.New("invalid signup")
)

// Questions is the fixed personality questionnaire shown during signup.
// Answers are positional.
var Questions = []string{
	"Prefiro trabalhar com fatos concretos do que com ideias abstratas",
	"Gosto de seguir planos e estruturas definidas",
	"Tomar decisões baseadas em lógica é mais importante do que considerar sentimentos",
	"Prefiro atividades rotineiras do que mudanças constantes",
	"Sou mais analítico do que criativo na resolução de problemas",
	"Valorizo mais a eficiência do que a originalidade",
	"Prefiro trabalhar sozinho do que em equipe",
	"Gosto mais de implementar ideias do que de gerar novas ideias",
	"Considero-me mais prático do que visionário",
	"Prefiro ambientes organizados e previsíveis",
}

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

var Genders = []Option{
	{Value: "M", Label: "Masculino"},
	{Value: "F", Label: "Feminino"},
	{Value: "O", Label: "Outro"},
	{Value: "PNI", Label: "Prefiro não informar"},
}

var Ethnicities = []Option{
	{Value: "B", Label: "Branca"},
	{Value: "P", Label: "Preta"},
	{Value: "PA", Label: "Parda"},
	{Value: "A", Label: "Amarela"},
	{Value: "I", Label: "Indígena"},
	{Value: "Q", Label: "Quilombola"},
	{Value: "C", Label: "Cigana/Roma"},
	{Value: "M", Label: "Mestiça"},
	{Value: "OE", Label: "Outro"},
	{Value: "PNI", Label: "Prefiro não informar"},
}

// DefaultAnswers returns a neutral answer sheet.
func DefaultAnswers() []int {
	out := make([]int, len(Questions))
	for i := range out {
		out[i] = AnswerDefault
	}
	return out
}

func ValidateAnswers(answers []int) error {
	if len(answers) != len(Questions) {
		return fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidAnswers, len(Questions), len(answers))
	}
	for i, a := range answers {
		if a < AnswerMin || a > AnswerMax {
			return fmt.Errorf("%w: answer %d out of range: %d", ErrInvalidAnswers, i+1, a)
		}
	}
	return nil
}

type Signup struct {
	Name      string
	Email     string
	Password  string
	BirthDate string
	Gender    string
	Ethnicity string
	Answers   []int
}

// NewSignup normalizes and checks a signup request. Missing gender and
// ethnicity default to the first option; a missing birth date defaults to
// DefaultBirthDate.
func NewSignup(in Signup) (Signup, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.BirthDate = strings.TrimSpace(in.BirthDate)
	in.Gender = strings.ToUpper(strings.TrimSpace(in.Gender))
	in.Ethnicity = strings.ToUpper(strings.TrimSpace(in.Ethnicity))

	if in.Name == "" {
		return Signup{}, fmt.Errorf("%w: name required", ErrInvalidSignup)
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return Signup{}, fmt.Errorf("%w: email required", ErrInvalidSignup)
	}
	if strings.TrimSpace(in.Password) == "" {
		return Signup{}, fmt.Errorf("%w: password required", ErrInvalidSignup)
	}
	if in.BirthDate == "" {
		in.BirthDate = DefaultBirthDate
	}
	if _, err := time.Parse("2006-01-02", in.BirthDate); err != nil {
		return Signup{}, fmt.Errorf("%w: birth date must be YYYY-MM-DD", ErrInvalidSignup)
	}
	if in.Gender == "" {
		in.Gender = Genders[0].Value
	}
	if !hasOption(Genders, in.Gender) {
		return Signup{}, fmt.Errorf("%w: unknown gender %q", ErrInvalidSignup, in.Gender)
	}
	if in.Ethnicity == "" {
		in.Ethnicity = Ethnicities[0].Value
	}
	if !hasOption(Ethnicities, in.Ethnicity) {
		return Signup{}, fmt.Errorf("%w: unknown ethnicity %q", ErrInvalidSignup, in.Ethnicity)
	}
	if in.Answers == nil {
		in.Answers = DefaultAnswers()
	}
	if err := ValidateAnswers(in.Answers); err != nil {
		return Signup{}, err
	}
	return in, nil
}

func hasOption(opts []Option, v string) bool {
	for _, o := range opts {
		if o.Value == v {
			return true
		}
	}
	return false
}
