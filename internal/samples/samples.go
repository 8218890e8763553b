// Package samples holds example emails for trying the analyzer.
package samples

import "sort"

// Sample kinds.
const (
	Phishing   = "phishing"
	Legitimate = "legitimate"
	Suspicious = "suspicious"
)

var emails = map[string]string{
	Phishing: `Subject: URGENT: Your Account Will Be Suspended

Dear Customer,

Your account has been temporarily suspended due to suspicious activity. You must verify your identity immediately to avoid permanent closure.

Click here to verify your account: http://bit.ly/verify-now

You have 24 hours to complete this process or your account will be permanently deleted.

Thank you,
Security Team`,

	Legitimate: `Subject: Welcome to Our Newsletter

Dear John Smith,

Thank you for subscribing to our monthly newsletter. We're excited to share valuable insights and updates with you.

You can manage your subscription preferences or unsubscribe at any time by visiting our preference center.

Best regards,
The Marketing Team
Company Name

Privacy Policy | Terms of Service | Contact Us`,

	Suspicious: `Subject: Congratulations! You've Won $1,000,000!

Dear Winner,

CONGRATULATIONS!!! You have been selected as our GRAND PRIZE WINNER in our international lottery program.

To claim your prize of $1,000,000 USD, please provide:
- Full name
- Address
- Phone number
- Bank account details

Act now! This offer expires in 48 hours.

Contact us immediately at winner@lottery-claim.com

Best of luck,
International Lottery Commission`,
}

// Kinds returns the available sample kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(emails))
	for k := range emails {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the sample email of the given kind.
func Lookup(kind string) (string, bool) {
	text, ok := emails[kind]
	return text, ok
}
