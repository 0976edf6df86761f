package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

const dateLayout = "January 2, 2006 15:04 MST"

// ComplaintCreatedMessage builds the admin email for a newly submitted complaint.
func ComplaintCreatedMessage(complaint domain.Complaint, to string) (Message, error) {
	var b strings.Builder
	b.WriteString("# New Complaint Registered\n\n")
	b.WriteString("A new complaint has been submitted and is waiting for review.\n\n")
	writeComplaintDetails(&b, complaint)

	return build(to, "New Complaint Registered: "+complaint.Title, b.String())
}

// ComplaintStatusChangedMessage builds the admin email for a status transition.
func ComplaintStatusChangedMessage(complaint domain.Complaint, previous, current domain.ComplaintStatus, to string) (Message, error) {
	var b strings.Builder
	b.WriteString("# Complaint Status Updated\n\n")
	fmt.Fprintf(&b, "**Status change:** %s → %s\n\n", previous.Label(), current.Label())
	writeComplaintDetails(&b, complaint)

	return build(to, "Complaint Status Updated: "+complaint.Title, b.String())
}

func writeComplaintDetails(b *strings.Builder, complaint domain.Complaint) {
	fmt.Fprintf(b, "## %s\n\n", escapeMarkdown(complaint.Title))
	fmt.Fprintf(b, "- **Complaint ID:** #%s\n", complaint.ShortID())
	fmt.Fprintf(b, "- **Priority:** %s\n", complaint.Priority)
	fmt.Fprintf(b, "- **Status:** %s\n", complaint.Status.Label())
	fmt.Fprintf(b, "- **Category:** %s\n", escapeMarkdown(complaint.Category))
	if !complaint.DateSubmitted.IsZero() {
		fmt.Fprintf(b, "- **Submitted:** %s\n", complaint.DateSubmitted.In(time.UTC).Format(dateLayout))
	}
	if complaint.User != nil {
		fmt.Fprintf(b, "- **Submitted by:** %s <%s>\n", escapeMarkdown(complaint.User.Name), complaint.User.Email)
	}
	b.WriteString("\n### Description\n\n")
	b.WriteString(escapeMarkdown(complaint.Description))
	b.WriteString("\n")
}

func build(to, subject, body string) (Message, error) {
	html, err := RenderHTML(body)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, Text: body, HTML: html}, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"#", `\#`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
)

// escapeMarkdown keeps submitter text from turning into markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
