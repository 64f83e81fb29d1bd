package usecase

import "fmt"

const magicLinkSubject = "Your wedding portal sign-in link"

// magicLinkBody renders the magic-link email. The link expires in 15
// minutes and works exactly once; the copy says so because guests do
// retry old links.
func magicLinkBody(firstName, link string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
<p>Hi %s,</p>
<p>Click the link below to sign in to the wedding portal:</p>
<p><a href="%s">%s</a></p>
<p style="color: #6b7280; font-size: 14px;">This link expires in 15 minutes and can only be used once.
If you didn't request it, you can safely ignore this email.</p>
</div>`, firstName, link, link)
}
