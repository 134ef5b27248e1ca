package service

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/recipeshare/backend/internal/logger"
	"github.com/pageza/recipeshare/backend/internal/metrics"
	"github.com/pageza/recipeshare/backend/internal/repository"
)

const (
	DigestSubject     = "Weekly Recipe Notification"
	digestRecipeLimit = 5
)

var digestHTML = htmltemplate.Must(htmltemplate.New("digest.html").Parse(`<h1>Reminder!!!</h1><br>
<p>Check out this amazing recipe website FAR... click on the link below</p><br>
{{- if .Recipes}}
<p>Fresh this week:</p>
<ul>
{{- range .Recipes}}
<li>{{.}}</li>
{{- end}}
</ul>
{{- end}}
<p><a href="{{.SiteURL}}">{{.SiteURL}}</a></p>
`))

var digestText = texttemplate.Must(texttemplate.New("digest.txt").Parse(`Do not have an idea how to make a specific item? Have a look into the site where you can find lots of people sharing their recipes.
{{- if .Recipes}}

Fresh this week:
{{- range .Recipes}}
- {{.}}
{{- end}}
{{- end}}

{{.SiteURL}}
`))

type digestData struct {
	SiteURL string
	Recipes []string
}

// DispatchSummary reports the outcome of one notification run
type DispatchSummary struct {
	Sent   int
	Failed int
}

// NotificationService sends the weekly digest to every subscriber
type NotificationService struct {
	store   *repository.Store
	mailer  Mailer
	siteURL string
	log     zerolog.Logger
}

func NewNotificationService(store *repository.Store, mailer Mailer, siteURL string) *NotificationService {
	return &NotificationService{
		store:   store,
		mailer:  mailer,
		siteURL: siteURL,
		log:     logger.Component("notifications"),
	}
}

// Dispatch renders the digest once and sends it to each subscriber in turn.
// A failed send is logged and the loop moves on; nothing is retried.
func (s *NotificationService) Dispatch(ctx context.Context) (DispatchSummary, error) {
	var summary DispatchSummary

	subscribers, err := s.store.Subscribers.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("load subscribers: %w", err)
	}
	if len(subscribers) == 0 {
		s.log.Info().Msg("No subscribers, skipping digest")
		return summary, nil
	}

	htmlBody, textBody, err := s.render(ctx)
	if err != nil {
		return summary, err
	}

	for _, sub := range subscribers {
		if err := s.mailer.SendEmail(ctx, sub.Email, DigestSubject, htmlBody, textBody); err != nil {
			summary.Failed++
			s.log.Error().Err(err).Str("email", sub.Email).Msg("Error sending digest")
			continue
		}
		summary.Sent++
	}

	metrics.RecordEmails(summary.Sent, summary.Failed)
	s.log.Info().Int("sent", summary.Sent).Int("failed", summary.Failed).Msg("Digest run finished")
	return summary, nil
}

// Run adapts Dispatch to a scheduled job
func (s *NotificationService) Run(ctx context.Context) error {
	_, err := s.Dispatch(ctx)
	return err
}

func (s *NotificationService) render(ctx context.Context) (string, string, error) {
	data := digestData{SiteURL: s.siteURL}

	recent, err := s.store.Recipes.ListRecent(ctx, digestRecipeLimit)
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not load recent recipes, sending digest without them")
	}
	caser := cases.Title(language.English)
	for _, r := range recent {
		data.Recipes = append(data.Recipes, caser.String(r.Title))
	}

	var htmlBuf, textBuf bytes.Buffer
	if err := digestHTML.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("render digest html: %w", err)
	}
	if err := digestText.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("render digest text: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}
