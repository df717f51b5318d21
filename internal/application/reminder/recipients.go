package reminder

import "github.com/ro-service/api/internal/domain"

// Recipient is one addressee of a reminder. Empty Phone or Email means that
// channel is not attempted.
type Recipient struct {
	Name  string
	Phone string
	Email string
}

// AdminContact is the optional shop-owner contact copied on every reminder.
type AdminContact struct {
	Phone string
	Email string
}

func (a AdminContact) configured() bool { return a.Phone != "" || a.Email != "" }

// Recipients lists the admin first, when configured, then the customer.
func Recipients(admin AdminContact, c domain.Customer) []Recipient {
	out := make([]Recipient, 0, 2)
	if admin.configured() {
		out = append(out, Recipient{Name: "Admin", Phone: admin.Phone, Email: admin.Email})
	}
	return append(out, Recipient{Name: c.Name, Phone: c.Phone, Email: c.Email})
}
