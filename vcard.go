package profile

import (
	"fmt"
	"strings"
)

// GenerateVCard renders a vCard 3.0 for contact tiles so visitors can
// download the profile owner as a contact.
func GenerateVCard(user *User) string {
	if user == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCARD\r\n")
	b.WriteString("VERSION:3.0\r\n")
	fmt.Fprintf(&b, "FN:%s %s\r\n", escapeVCard(user.FirstName), escapeVCard(user.LastName))
	fmt.Fprintf(&b, "N:%s;%s\r\n", escapeVCard(user.LastName), escapeVCard(user.FirstName))
	fmt.Fprintf(&b, "EMAIL:%s\r\n", escapeVCard(user.Email))
	fmt.Fprintf(&b, "TEL:%s\r\n", escapeVCard(user.Phone))
	fmt.Fprintf(&b, "NOTE:%s\r\n", escapeVCard(user.Description))
	b.WriteString("END:VCARD\r\n")

	return b.String()
}

// escapeVCard escapes the characters RFC 2426 reserves in text values.
func escapeVCard(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
