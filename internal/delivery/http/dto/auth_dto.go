package dto

import "skill-upcycle/internal/domain/analysis"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	BirthDate string `json:"birth_date"`
	Gender    string `json:"gender"`
	Ethnicity string `json:"ethnicity"`
	Answers   []int  `json:"answers"`
}

func (r SignupRequest) ToDomain() analysis.Signup {
	return analysis.Signup{
		Name:      r.Name,
		Email:     r.Email,
		Password:  r.Password,
		BirthDate: r.BirthDate,
		Gender:    r.Gender,
		Ethnicity: r.Ethnicity,
		Answers:   r.Answers,
	}
}

type ProfileRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	BirthDate string `json:"birth_date"`
}

type PersonalityResponse struct {
	Questions      []string          `json:"questions"`
	AnswerMin      int               `json:"answer_min"`
	AnswerMax      int               `json:"answer_max"`
	DefaultAnswers []int             `json:"default_answers"`
	Genders        []analysis.Option `json:"genders"`
	Ethnicities    []analysis.Option `json:"ethnicities"`
}

func NewPersonalityResponse() PersonalityResponse {
	return PersonalityResponse{
		Questions:      analysis.Questions,
		AnswerMin:      analysis.AnswerMin,
		AnswerMax:      analysis.AnswerMax,
		DefaultAnswers: analysis.DefaultAnswers(),
		Genders:        analysis.Genders,
		Ethnicities:    analysis.Ethnicities,
	}
}
