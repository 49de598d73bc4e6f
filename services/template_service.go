package services

import (
	"regexp"
	"time"

	"github.com/clockwisehq/clockwise/config"
)

// RenderedTemplate is the output of a template render: ready-to-send subject
// and bodies.
type RenderedTemplate struct {
	Subject string
	HTML    string
	Text    string
}

// TemplateService renders a named template with a variable map. Rendering
// never fails: an unknown template id falls back to the default template and
// missing variables become empty strings.
type TemplateService interface {
	Render(templateID string, vars map[string]string) RenderedTemplate
}

type emailTemplate struct {
	ID        string
	Subject   string
	HTML      string
	Text      string
	Variables []string
}

// templateService struct
type templateService struct {
	Config  *config.Config
	now     func() time.Time
	catalog map[string]emailTemplate
}

// NewTemplateService creates a new instance of TemplateService
func NewTemplateService(conf *config.Config) TemplateService {
	return newTemplateService(conf, time.Now)
}

func newTemplateService(conf *config.Config, now func() time.Time) *templateService {
	return &templateService{
		Config:  conf,
		now:     now,
		catalog: buildCatalog(),
	}
}

// placeholderPattern matches {{name}} with optional inner whitespace.
// Substitution is literal replacement, not a template language: anything that
// is not a {{name}} placeholder passes through untouched.
var placeholderPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

func (t *templateService) Render(templateID string, vars map[string]string) RenderedTemplate {
	tmpl, ok := t.catalog[templateID]
	if !ok {
		tmpl = t.catalog["default"]
	}

	merged := make(map[string]string, len(vars)+3)
	merged["current_date"] = t.now().Format("Monday, 02 January 2006")
	merged["company_name"] = t.Config.CompanyName
	merged["recipient_email"] = ""
	for k, v := range vars {
		merged[k] = v
	}

	return RenderedTemplate{
		Subject: substitute(tmpl.Subject, merged),
		HTML:    substitute(tmpl.HTML, merged),
		Text:    substitute(tmpl.Text, merged),
	}
}

func substitute(pattern string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(pattern, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		return vars[name]
	})
}

func buildCatalog() map[string]emailTemplate {
	templates := []emailTemplate{
		{
			ID:      "default",
			Subject: "{{title}}",
			HTML: `<html><body>
<h2>{{title}}</h2>
<p>{{message}}</p>
<p style="color:#888;font-size:12px">{{company_name}} &middot; {{current_date}}</p>
</body></html>`,
			Text:      "{{title}}\n\n{{message}}\n\n{{company_name}} - {{current_date}}",
			Variables: []string{"title", "message"},
		},
		{
			ID:      "timesheet_reminder",
			Subject: "Reminder: log your hours for {{current_date}}",
			HTML: `<html><body>
<h2>Don't forget your timesheet</h2>
<p>Hi {{first_name}},</p>
<p>You haven't logged any hours for {{current_date}} yet. Take a minute to fill in your timesheet so your projects stay up to date.</p>
<p><a href="{{timesheet_url}}">Open your timesheet</a></p>
<p style="color:#888;font-size:12px">Sent to {{recipient_email}} by {{company_name}}. You can change reminder settings in your profile.</p>
</body></html>`,
			Text: `Hi {{first_name}},

You haven't logged any hours for {{current_date}} yet. Take a minute to fill in your timesheet so your projects stay up to date.

Open your timesheet: {{timesheet_url}}

Sent to {{recipient_email}} by {{company_name}}. You can change reminder settings in your profile.`,
			Variables: []string{"first_name", "timesheet_url"},
		},
		{
			ID:      "mention",
			Subject: "{{author_name}} mentioned you",
			HTML: `<html><body>
<h2>You were mentioned</h2>
<p>Hi {{first_name}},</p>
<p>{{author_name}} mentioned you in a comment on {{task}}:</p>
<blockquote>{{comment_excerpt}}</blockquote>
<p><a href="{{comment_url}}">View the comment</a></p>
<p style="color:#888;font-size:12px">Sent to {{recipient_email}} by {{company_name}}.</p>
</body></html>`,
			Text: `Hi {{first_name}},

{{author_name}} mentioned you in a comment on {{task}}:

> {{comment_excerpt}}

View the comment: {{comment_url}}

Sent to {{recipient_email}} by {{company_name}}.`,
			Variables: []string{"first_name", "author_name", "task", "comment_excerpt", "comment_url"},
		},
		{
			ID:      "weekly_report",
			Subject: "Your weekly summary from {{company_name}}",
			HTML: `<html><body>
<h2>Weekly summary</h2>
<p>Hi {{first_name}},</p>
<p>Here is your week at a glance: {{total_hours}} hours logged across {{project_count}} projects.</p>
<p style="color:#888;font-size:12px">Sent to {{recipient_email}} by {{company_name}} on {{current_date}}.</p>
</body></html>`,
			Text: `Hi {{first_name}},

Here is your week at a glance: {{total_hours}} hours logged across {{project_count}} projects.

Sent to {{recipient_email}} by {{company_name}} on {{current_date}}.`,
			Variables: []string{"first_name", "total_hours", "project_count"},
		},
		{
			ID:      "test",
			Subject: "Test notification from {{company_name}}",
			HTML: `<html><body>
<h2>It works</h2>
<p>This is a test notification sent to {{recipient_email}} on {{current_date}}.</p>
</body></html>`,
			Text:      "This is a test notification sent to {{recipient_email}} on {{current_date}}.",
			Variables: []string{"recipient_email"},
		},
	}

	catalog := make(map[string]emailTemplate, len(templates))
	for _, tmpl := range templates {
		catalog[tmpl.ID] = tmpl
	}
	return catalog
}
