package forms

import (
	"context"

	gforms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/Usman-NisarUETTaxila/Ed-room/internal/models"
	"github.com/Usman-NisarUETTaxila/Ed-room/internal/utils"
)

const pointsPerQuestion = 1

// GoogleForms creates quiz forms through the Google Forms API: one Create
// call for the form shell, then a single batch update that switches on quiz
// mode, sets the description, and appends every question.
type GoogleForms struct {
	svc *gforms.Service
}

func NewGoogleForms(ctx context.Context, credentialsFile string) (*GoogleForms, error) {
	opts := []option.ClientOption{
		option.WithScopes(
			"https://www.googleapis.com/auth/forms.body",
			"https://www.googleapis.com/auth/drive.file",
		),
	}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := gforms.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GoogleForms{svc: svc}, nil
}

func (g *GoogleForms) CreateQuizForm(ctx context.Context, title, description string, questions []models.MCQ) (FormInfo, error) {
	const op = "GoogleForms.CreateQuizForm"

	created, err := g.svc.Forms.Create(&gforms.Form{
		Info: &gforms.Info{Title: title, DocumentTitle: title},
	}).Context(ctx).Do()
	if err != nil {
		return FormInfo{}, utils.E(utils.CodeUnavailable, op, "failed to create form", err)
	}

	reqs := []*gforms.Request{
		{
			UpdateSettings: &gforms.UpdateSettingsRequest{
				Settings: &gforms.FormSettings{
					QuizSettings: &gforms.QuizSettings{IsQuiz: true},
				},
				UpdateMask: "quizSettings.isQuiz",
			},
		},
		{
			UpdateFormInfo: &gforms.UpdateFormInfoRequest{
				Info:       &gforms.Info{Description: description},
				UpdateMask: "description",
			},
		},
	}

	for i, q := range questions {
		opts := make([]*gforms.Option, 0, len(q.Options))
		for _, o := range q.Options {
			opts = append(opts, &gforms.Option{Value: o})
		}
		grading := &gforms.Grading{
			PointValue: pointsPerQuestion,
			CorrectAnswers: &gforms.CorrectAnswers{
				Answers: []*gforms.CorrectAnswer{{Value: q.Options[q.AnswerIndex]}},
			},
		}
		if q.Explanation != "" {
			grading.WhenWrong = &gforms.Feedback{Text: q.Explanation}
		}
		reqs = append(reqs, &gforms.Request{
			CreateItem: &gforms.CreateItemRequest{
				Item: &gforms.Item{
					Title: q.Question,
					QuestionItem: &gforms.QuestionItem{
						Question: &gforms.Question{
							Required: true,
							Grading:  grading,
							ChoiceQuestion: &gforms.ChoiceQuestion{
								Type:    "RADIO",
								Options: opts,
							},
						},
					},
				},
				Location: &gforms.Location{
					Index:           int64(i),
					ForceSendFields: []string{"Index"},
				},
			},
		})
	}

	_, err = g.svc.Forms.BatchUpdate(created.FormId, &gforms.BatchUpdateFormRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	if err != nil {
		return FormInfo{}, utils.E(utils.CodeUnavailable, op, "failed to populate form", err)
	}

	return FormInfo{FormID: created.FormId, ResponderURL: created.ResponderUri}, nil
}
