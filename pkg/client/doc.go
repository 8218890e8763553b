// Package client is the PhishGuard Go SDK.
//
// It wraps the HTTP API of a phishguard-server instance.
//
// # Scoring pasted text
//
//	c, err := client.New("http://localhost:8080")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := c.Analyze(ctx, emailText)
//	fmt.Println(report.RiskLevel, report.Score) // dangerous 85
//
// Blank text is rejected by the server; the error satisfies
// errors.Is(err, client.ErrInvalidInput).
//
// # Scoring a raw message
//
// AnalyzeMessage uploads an RFC 5322 message (for example an .eml file) and
// the server extracts the subject and body before scoring:
//
//	f, _ := os.Open("suspicious.eml")
//	defer f.Close()
//	report, err := c.AnalyzeMessage(ctx, f)
//
// # Browsing the rule catalog
//
//	rules, err := c.Rules(ctx, "lottery") // fuzzy filter; "" lists everything
package client
