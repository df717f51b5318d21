package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/ro-service/api/internal/domain"
)

const dueDateLayout = "02/01/2006"

// RenderMessage builds the plain-text reminder body shared by SMS and email.
// The due date is printed in loc.
func RenderMessage(due domain.DueRecord, u Urgency, loc *time.Location) string {
	c, r := due.Customer, due.Record

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", u.Tag)
	b.WriteString("RO Service Reminder\n\n")
	b.WriteString("Customer Details:\n")
	b.WriteString("--------------------\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	fmt.Fprintf(&b, "Model: %s\n", c.Model)
	fmt.Fprintf(&b, "Address: %s\n\n", orNA(c.Address))
	fmt.Fprintf(&b, "Service Due: %s\n", r.NextServiceDate.In(loc).Format(dueDateLayout))
	fmt.Fprintf(&b, "Days Remaining: %d %s\n", u.DaysUntil, plural(u.DaysUntil, "day", "days"))

	if len(r.PriorityParts) > 0 {
		b.WriteString("\nPriority Parts:\n")
		for _, p := range r.PriorityParts {
			fmt.Fprintf(&b, "   • %s: %s\n", p.Part, p.Care)
		}
	}
	if r.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", r.Notes)
	}
	b.WriteString("\nPlease schedule the service appointment.")
	return b.String()
}

// Subject is the email subject line for a reminder.
func Subject(c domain.Customer, u Urgency) string {
	return fmt.Sprintf("RO Service %s - %s", u.Tag, c.Name)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
