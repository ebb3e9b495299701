package template

import (
	"bytes"
	"context"
	"fmt"
	htmltemplate "html/template"
	"maps"
	texttemplate "text/template"

	"github.com/verbatim-inc/verbatim/internal/domain/notification"
	"github.com/verbatim-inc/verbatim/internal/domain/translation"
	"github.com/verbatim-inc/verbatim/internal/domain/user"
	"github.com/verbatim-inc/verbatim/internal/infrastructure/i18n"
	"github.com/verbatim-inc/verbatim/internal/shared/config"
	"github.com/verbatim-inc/verbatim/internal/shared/logger"
	"github.com/verbatim-inc/verbatim/internal/shared/services/markdown"
)

const footerTemplate = "footer"

// Renderer renders the mail/<name> template family in the recipient's
// language. The locale is switched only for the duration of a render.
type Renderer struct {
	loader   *MailTemplateLoader
	locale   *i18n.Service
	markdown markdown.MarkdownService
	site     config.SiteConfig
	logger   logger.Interface
}

func NewRenderer(
	loader *MailTemplateLoader,
	locale *i18n.Service,
	markdownService markdown.MarkdownService,
	site config.SiteConfig,
	logger logger.Interface,
) *Renderer {
	return &Renderer{
		loader:   loader,
		locale:   locale,
		markdown: markdownService,
		site:     site,
		logger:   logger,
	}
}

// Render produces subject, text body and, when the template family has
// one, the html body of name. The previously active locale is restored
// whether or not rendering succeeds.
func (r *Renderer) Render(ctx context.Context, language, name string, subject translation.Subject, data map[string]any) (*notification.Rendered, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := r.templateData(name, subject, data)

	var out notification.Rendered
	err := r.locale.Use(language, func() error {
		var err error
		if out.Subject, err = r.renderText(subjectName(name), values); err != nil {
			return err
		}
		if out.Body, err = r.renderText(textName(name), values); err != nil {
			return err
		}
		if r.loader.HasTemplate(htmlName(name)) {
			if out.HTMLBody, err = r.renderHTML(htmlName(name), values); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Errorw("failed to render mail", "template", name, "language", language, "error", err)
		return nil, fmt.Errorf("failed to render template %s: %w", name, err)
	}

	return &out, nil
}

func (r *Renderer) templateData(name string, subject translation.Subject, data map[string]any) map[string]any {
	values := make(map[string]any, len(data)+4)
	maps.Copy(values, data)

	values["translation"] = subject
	values["current_site"] = r.site.Domain
	values["translation_url"] = ""
	if subject != nil {
		values["translation_url"] = r.SiteURL(subject.AbsoluteURL())
	}
	values["subject_template"] = subjectName(name)
	return values
}

// SiteURL makes path absolute against the configured site.
func (r *Renderer) SiteURL(path string) string {
	scheme := r.site.Scheme
	if scheme == "" {
		scheme = "http"
	}
	return fmt.Sprintf("%s://%s%s", scheme, r.site.Domain, path)
}

func (r *Renderer) renderText(name string, values map[string]any) (string, error) {
	src, err := r.loader.Get(name)
	if err != nil {
		return "", err
	}

	tmpl, err := texttemplate.New(name).Funcs(texttemplate.FuncMap(r.funcs())).Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if footer, ferr := r.loader.Get("mail/footer.txt"); ferr == nil {
		if _, err := tmpl.New(footerTemplate).Parse(footer); err != nil {
			return "", fmt.Errorf("failed to parse text footer: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, values); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) renderHTML(name string, values map[string]any) (string, error) {
	src, err := r.loader.Get(name)
	if err != nil {
		return "", err
	}

	funcs := htmltemplate.FuncMap(r.funcs())
	funcs["markdown"] = r.markdownHTML

	tmpl, err := htmltemplate.New(name).Funcs(funcs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if footer, ferr := r.loader.Get("mail/footer.html"); ferr == nil {
		if _, err := tmpl.New(footerTemplate).Parse(footer); err != nil {
			return "", fmt.Errorf("failed to parse html footer: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, values); err != nil {
		return "", fmt.Errorf("failed to execute %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) funcs() map[string]any {
	return map[string]any{
		"T":            r.translate,
		"user_display": userDisplay,
	}
}

// translate backs the T template function: T "MessageID" "Key" value ...
func (r *Renderer) translate(messageID string, pairs ...any) (string, error) {
	if len(pairs)%2 != 0 {
		return "", fmt.Errorf("T %s: odd number of arguments", messageID)
	}
	var data map[string]any
	if len(pairs) > 0 {
		data = make(map[string]any, len(pairs)/2)
		for i := 0; i < len(pairs); i += 2 {
			key, ok := pairs[i].(string)
			if !ok {
				return "", fmt.Errorf("T %s: key %v is not a string", messageID, pairs[i])
			}
			data[key] = pairs[i+1]
		}
	}
	return r.locale.Translate(messageID, data), nil
}

func (r *Renderer) markdownHTML(text string) (htmltemplate.HTML, error) {
	out, err := r.markdown.ToSafeHTML(text)
	if err != nil {
		return "", err
	}
	// sanitized by the markdown service
	return htmltemplate.HTML(out), nil
}

func userDisplay(v any) string {
	switch u := v.(type) {
	case nil:
		return ""
	case *user.User:
		if u == nil {
			return ""
		}
		return u.DisplayName()
	case string:
		return u
	case fmt.Stringer:
		return u.String()
	default:
		return fmt.Sprint(v)
	}
}

func subjectName(name string) string {
	return fmt.Sprintf("mail/%s_subject.txt", name)
}

func textName(name string) string {
	return fmt.Sprintf("mail/%s.txt", name)
}

func htmlName(name string) string {
	return fmt.Sprintf("mail/%s.html", name)
}
