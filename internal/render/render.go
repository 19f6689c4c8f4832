// Package render builds the alert email from a batch of scoring events.
package render

import (
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"nba-alert-service/internal/domain/events"
	"nba-alert-service/internal/timeutil"
)

const (
	promoCode   = "NBA50"
	displayDate = "January 2, 2006"
)

var textTmpl = texttemplate.Must(texttemplate.New("alert-text").Parse(`NBA 50-Point Alert

{{range .Scorers}}{{.Player}} ({{.Team}}) scored {{.Points}} points vs {{.Opponent}} on {{.GameDate}}!
{{end}}
DoorDash 50% OFF promotion is ACTIVE today!

Use code: {{.PromoCode}}
Valid today until 11:59 PM PT
Save 50% off (up to $10) on DoorDash delivery orders

---
This is an automated alert from the NBA 50-Point Checker.
Unsubscribe: reply with your unsubscribe token.
`))

var htmlTmpl = template.Must(template.New("alert-html").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: #ff6600; color: white; padding: 30px; text-align: center; border-radius: 10px;">
    <h1 style="margin: 0; font-size: 28px;">DoorDash 50% OFF Alert!</h1>
    <p style="margin: 10px 0 0 0;">NBA 50-Point Alert</p>
  </div>
  <div style="background: #f9f9f9; padding: 30px; margin: 20px 0; border-radius: 10px;">
{{range .Scorers}}    <div style="background: white; padding: 20px; margin: 15px 0; border-left: 4px solid #ff6600;">
      <div style="font-size: 20px; font-weight: bold; color: #ff6600;">{{.Player}} ({{.Team}})</div>
      <div style="color: #666; margin-top: 5px;">{{.Points}} points &bull; vs {{.Opponent}} &bull; {{.GameDate}}</div>
    </div>
{{end}}    <div style="background: #ff6600; color: white; padding: 20px; text-align: center; font-size: 32px; font-weight: bold; border-radius: 10px;">{{.PromoCode}}</div>
    <p style="color: #ff6600; font-weight: bold;">This promo is only valid TODAY, so use it before midnight!</p>
  </div>
  <p style="text-align: center; color: #999; font-size: 12px;">Automated alert from the NBA 50-Point Checker</p>
</body>
</html>
`))

type scorerView struct {
	Player   string
	Team     string
	Opponent string
	Points   int
	GameDate string
}

type emailView struct {
	Scorers   []scorerView
	PromoCode string
}

// Subject builds the email subject line, led by the first scorer in the batch.
func Subject(batch []events.ScoringEvent) string {
	if len(batch) == 0 {
		return "NBA 50-Point Alert"
	}
	lead := batch[0]
	return fmt.Sprintf("DoorDash 50%% OFF Today! %s scored %d points", lead.Player, lead.Points)
}

// Text renders the plain text body.
func Text(batch []events.ScoringEvent) (string, error) {
	var buf strings.Builder
	if err := textTmpl.Execute(&buf, view(batch)); err != nil {
		return "", fmt.Errorf("render text body: %w", err)
	}
	return buf.String(), nil
}

// HTML renders the HTML body.
func HTML(batch []events.ScoringEvent) (string, error) {
	var buf strings.Builder
	if err := htmlTmpl.Execute(&buf, view(batch)); err != nil {
		return "", fmt.Errorf("render html body: %w", err)
	}
	return buf.String(), nil
}

func view(batch []events.ScoringEvent) emailView {
	v := emailView{PromoCode: promoCode}
	for _, ev := range batch {
		v.Scorers = append(v.Scorers, scorerView{
			Player:   ev.Player,
			Team:     ev.Team,
			Opponent: ev.Opponent,
			Points:   ev.Points,
			GameDate: formatDate(ev.Date),
		})
	}
	return v
}

func formatDate(date string) string {
	parsed, err := timeutil.ParseDate(date)
	if err != nil {
		return date
	}
	return parsed.Format(displayDate)
}
