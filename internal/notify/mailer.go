// Package notify sends the digest email for a finished search cycle: an
// HTML table of the ranked postings with the full results attached as csv.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/getjobscout/jobscout/internal/export"
	"github.com/getjobscout/jobscout/internal/jobs"
)

var digestTmpl = template.Must(template.New("digest").Parse(`<html>
<body>
<h2>{{len .Items}} new postings</h2>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Score</th><th>Title</th><th>Company</th><th>Location</th><th>Why</th><th>Link</th></tr>
{{range .Items}}<tr>
<td>{{printf "%.2f" .MatchScore}}</td>
<td>{{.Title}}</td>
<td>{{.Company}}</td>
<td>{{.Location}}</td>
<td>{{.MatchReason}}</td>
<td><a href="{{.URL}}">{{.Source}}</a></td>
</tr>
{{end}}</table>
</body>
</html>
`))

// Mailer sends digests over SMTP with plain auth.
type Mailer struct {
	Host     string
	Port     int
	From     string
	Password string

	logger *zap.Logger
}

func NewMailer(host string, port int, from, password string, log *zap.Logger) *Mailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailer{
		Host:     host,
		Port:     port,
		From:     from,
		Password: password,
		logger:   log,
	}
}

// SendDigest builds and sends the digest email to every recipient.
func (m *Mailer) SendDigest(to []string, postings *jobs.Postings) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	msg, err := m.buildMessage(to, postings)
	if err != nil {
		return fmt.Errorf("building digest message: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.From, m.Password, m.Host)

	if err := smtp.SendMail(addr, auth, m.From, to, msg); err != nil {
		return fmt.Errorf("sending digest: %w", err)
	}

	m.logger.Info("digest sent",
		zap.Int("postings", postings.Len()),
		zap.Int("recipients", len(to)),
	)

	return nil
}

func (m *Mailer) buildMessage(to []string, postings *jobs.Postings) ([]byte, error) {
	var buf bytes.Buffer

	fromAddrs := []*mail.Address{{Address: m.From}}
	toAddrs := make([]*mail.Address, 0, len(to))
	for _, rcpt := range to {
		toAddrs = append(toAddrs, &mail.Address{Address: rcpt})
	}

	var h mail.Header
	h.SetDate(time.Now())
	h.SetAddressList("From", fromAddrs)
	h.SetAddressList("To", toAddrs)
	h.SetSubject(fmt.Sprintf("jobscout: %d new postings", postings.Len()))

	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, err
	}

	var inlineHeader mail.InlineHeader
	inlineHeader.SetContentType("text/html", map[string]string{"charset": "utf-8"})
	inline, err := mw.CreateSingleInline(inlineHeader)
	if err != nil {
		return nil, err
	}
	if err := digestTmpl.Execute(inline, postings); err != nil {
		return nil, err
	}
	if err := inline.Close(); err != nil {
		return nil, err
	}

	var attHeader mail.AttachmentHeader
	attHeader.SetContentType("text/csv", nil)
	attHeader.SetFilename("postings.csv")
	att, err := mw.CreateAttachment(attHeader)
	if err != nil {
		return nil, err
	}
	if err := export.WriteCSV(att, postings); err != nil {
		return nil, err
	}
	if err := att.Close(); err != nil {
		return nil, err
	}

	if err := mw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
