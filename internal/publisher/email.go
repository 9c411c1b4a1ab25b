package publisher

import (
	"context"
	"fmt"
	"html"
	"mime"
	"net/smtp"
	"regexp"
	"strings"

	"github.com/ryosukesatoh/astro-feed/internal/digest"
)

// EmailPublisher sends the digest as an HTML email via SMTP.
type EmailPublisher struct {
	host     string
	port     int
	username string
	password string
	from     string
	to       []string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailPublisher(host string, port int, username, password, from string, to []string) *EmailPublisher {
	return &EmailPublisher{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		to:       to,
		send:     smtp.SendMail,
	}
}

func (p *EmailPublisher) Publish(_ context.Context, d *digest.Digest) error {
	subject := mime.QEncoding.Encode("utf-8", fmt.Sprintf("%s - %s", d.Title, d.Headline))
	body := buildHTMLBody(d)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		p.from,
		strings.Join(p.to, ","),
		subject,
		body,
	)

	addr := fmt.Sprintf("%s:%d", p.host, p.port)
	var auth smtp.Auth
	if p.username != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}

	if err := p.send(addr, auth, p.from, p.to, []byte(msg)); err != nil {
		return fmt.Errorf("email: failed to send: %w", err)
	}

	return nil
}

var (
	boldRe  = regexp.MustCompile(`\*\*(.+?)\*\*`)
	emojiRe = regexp.MustCompile(`:[a-z_]+:`)
)

// markdownToHTML converts the small Discord markdown subset used in digest
// lines (bold and :emoji: bullets) to HTML.
func markdownToHTML(line string) string {
	s := html.EscapeString(line)
	s = emojiRe.ReplaceAllString(s, "★")
	return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
}

func buildHTMLBody(d *digest.Digest) string {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 700px; margin: 0 auto; padding: 20px; color: #e6e6f0; background: #0b0d21; }
h1 { color: #f5c542; border-bottom: 2px solid #3b3f7a; padding-bottom: 10px; }
.headline { font-size: 1.2em; margin-bottom: 20px; }
ul { list-style: none; padding-left: 0; }
li { margin-bottom: 8px; }
.footer { color: #9a9ab8; font-size: 0.85em; margin-top: 30px; }
.footer img { width: 20px; vertical-align: middle; margin-right: 6px; }
</style></head><body>`)

	sb.WriteString(fmt.Sprintf("<h1>%s</h1>", html.EscapeString(d.Title)))
	sb.WriteString(fmt.Sprintf(`<p class="headline">%s</p>`, html.EscapeString(d.Headline)))

	sb.WriteString("<ul>")
	for _, line := range d.Lines {
		sb.WriteString(fmt.Sprintf("<li>%s</li>", markdownToHTML(line)))
	}
	sb.WriteString("</ul>")

	sb.WriteString(`<div class="footer">`)
	if d.Footer.IconURL != "" {
		sb.WriteString(fmt.Sprintf(`<img src="%s" alt="">`, html.EscapeString(d.Footer.IconURL)))
	}
	sb.WriteString(html.EscapeString(d.Footer.Text))
	sb.WriteString("</div>")

	sb.WriteString("</body></html>")
	return sb.String()
}
