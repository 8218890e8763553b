package threat

import (
	"reflect"
	"strings"
	"testing"
)

func messages(r Result) []string {
	out := make([]string, len(r.Indicators))
	for i, ind := range r.Indicators {
		out[i] = ind.Message
	}
	return out
}

func hasMessage(r Result, msg string) bool {
	for _, ind := range r.Indicators {
		if ind.Message == msg {
			return true
		}
	}
	return false
}

func countMessage(r Result, msg string) int {
	n := 0
	for _, ind := range r.Indicators {
		if ind.Message == msg {
			n++
		}
	}
	return n
}

func TestAnalyze_UrgentVerificationShortLink(t *testing.T) {
	r := Analyze("URGENT: verify your account now. Click here: http://bit.ly/verify")

	if r.Tier != TierDangerous {
		t.Errorf("tier: got %q, want %q", r.Tier, TierDangerous)
	}
	if r.Score != 85 {
		t.Errorf("score: got %d, want 85", r.Score)
	}
	want := []string{
		"Urgent language detected",
		"Account verification request",
		"Suspicious call-to-action",
		"Shortened URL detected",
	}
	if got := messages(r); !reflect.DeepEqual(got, want) {
		t.Errorf("indicators:\n got  %q\n want %q", got, want)
	}
}

func TestAnalyze_PersonalizedNewsletterIsSafe(t *testing.T) {
	text := `Dear John Smith,

Thank you for subscribing to our monthly newsletter.
You can unsubscribe at any time.

Best regards,
The Marketing Team`

	r := Analyze(text)
	if r.Tier != TierSafe {
		t.Errorf("tier: got %q, want %q", r.Tier, TierSafe)
	}
	if r.Score > SafeThreshold {
		t.Errorf("score: got %d, want <= %d", r.Score, SafeThreshold)
	}
	for _, ind := range r.Indicators {
		if ind.Type != Positive {
			t.Errorf("unexpected negative indicator %q", ind.Message)
		}
	}
}

func TestAnalyze_LotteryClampsToMax(t *testing.T) {
	text := "CONGRATULATIONS!!! You are our lottery winner. Send your bank account details " +
		"by wire transfer. Act now, this offer expires today."

	r := Analyze(text)
	if r.Tier != TierDangerous {
		t.Errorf("tier: got %q, want %q", r.Tier, TierDangerous)
	}
	if r.Score != MaxScore {
		t.Errorf("score: got %d, want %d", r.Score, MaxScore)
	}
	for _, msg := range []string{
		"Prize/lottery scam indicators",
		"Requests for sensitive information",
		"Urgent language detected",
		"Excessive punctuation detected",
	} {
		if !hasMessage(r, msg) {
			t.Errorf("missing indicator %q in %q", msg, messages(r))
		}
	}
}

func TestAnalyze_NoFindings(t *testing.T) {
	r := Analyze("Your parcel is waiting.")

	if r.Score != 0 {
		t.Errorf("score: got %d, want 0", r.Score)
	}
	if r.Tier != TierSafe {
		t.Errorf("tier: got %q, want %q", r.Tier, TierSafe)
	}
	if len(r.Indicators) != 1 {
		t.Fatalf("indicators: got %d, want 1", len(r.Indicators))
	}
	if r.Indicators[0] != noFindings {
		t.Errorf("indicator: got %+v, want %+v", r.Indicators[0], noFindings)
	}
}

func TestAnalyze_Shouting(t *testing.T) {
	r := Analyze("PLEASE READ THIS NOTE NOW")

	want := []string{"Excessive use of capital letters"}
	if got := messages(r); !reflect.DeepEqual(got, want) {
		t.Errorf("indicators: got %q, want %q", got, want)
	}
	if r.Score != capsDelta {
		t.Errorf("score: got %d, want %d", r.Score, capsDelta)
	}
}

func TestAnalyze_ThreeCapsWordsDoNotShout(t *testing.T) {
	r := Analyze("THIS IS AN OFFICIAL NOTICE")
	if hasMessage(r, "Excessive use of capital letters") {
		t.Error("three all-caps words should not trigger the capitalization heuristic")
	}
}

func TestAnalyze_PositiveRulesCostFlatFive(t *testing.T) {
	// One medium negative (+20) against four positives (-5 each).
	text := "Dear John Smith, thank you for your order. Unsubscribe at https://example.com. Act now."

	r := Analyze(text)
	if r.Score != 0 {
		t.Errorf("score: got %d, want 0", r.Score)
	}
	if len(r.Indicators) != 5 {
		t.Errorf("indicators: got %d, want 5 (%q)", len(r.Indicators), messages(r))
	}
	if r.Indicators[0].Type != Negative {
		t.Errorf("negative rules must be evaluated first, got %+v", r.Indicators[0])
	}
}

func TestAnalyze_NegativeSeverityDeltas(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"Pay the fee by wire transfer.", 30},      // high
		{"A great investment opportunity.", 20},    // medium
		{"Dear valued, see you soon.", 10},         // low
		{"Pay by wire transfer or gift card.", 30}, // same rule twice
		{"wire transfer wire transfer again.", 30}, // repeated match
	}
	for _, tc := range cases {
		if got := Analyze(tc.text).Score; got != tc.want {
			t.Errorf("Analyze(%q) score: got %d, want %d", tc.text, got, tc.want)
		}
	}
}

func TestAnalyze_RulesFireOncePerRule(t *testing.T) {
	r := Analyze("urgent urgent URGENT immediate final notice")
	if n := countMessage(r, "Urgent language detected"); n != 1 {
		t.Errorf("urgent indicator count: got %d, want 1", n)
	}
}

func TestAnalyze_ShortenedURLPerOccurrence(t *testing.T) {
	text := "See http://bit.ly/a and https://t.co/b and http://www.tinyurl.com/x and https://microsoft.com/y"

	r := Analyze(text)
	if n := countMessage(r, "Shortened URL detected"); n != 4 {
		t.Errorf("shortened URL indicators: got %d, want 4", n)
	}
	// brand (+20), https (-5), four shorteners (+60)
	if r.Score != 75 {
		t.Errorf("score: got %d, want 75", r.Score)
	}
}

func TestAnalyze_ShortenerFragmentInsideHost(t *testing.T) {
	r := Analyze("Sign in to your account at https://microsoft.com today")
	if n := countMessage(r, "Shortened URL detected"); n != 1 {
		t.Errorf("shortened URL indicators: got %d, want 1", n)
	}
	// brand (+20), https (-5), shortener (+15)
	if r.Score != 30 || r.Tier != TierSuspicious {
		t.Errorf("got %d/%s, want 30/suspicious", r.Score, r.Tier)
	}

	r = Analyze("http://tinyurl.co/abc")
	if n := countMessage(r, "Shortened URL detected"); n != 1 || r.Score != 15 {
		t.Errorf("bare tinyurl fragment: got %d indicators, score %d; want 1, 15", n, r.Score)
	}
}

func TestAnalyze_ShortenerMatchIsCaseSensitive(t *testing.T) {
	r := Analyze("Sign in at HTTP://BIT.LY/abc today")
	if hasMessage(r, "Shortened URL detected") {
		t.Errorf("upper-case URL must not match, got %q", messages(r))
	}
}

func TestAnalyze_MisspellingsContributeIndependently(t *testing.T) {
	r := Analyze("We will recieve the package on a seperate day, definately.")

	if n := countMessage(r, "Spelling errors detected"); n != 3 {
		t.Errorf("spelling indicators: got %d, want 3", n)
	}
	if r.Score != 3*misspellingDelta {
		t.Errorf("score: got %d, want %d", r.Score, 3*misspellingDelta)
	}
}

func TestAnalyze_TruncatesInEvaluationOrder(t *testing.T) {
	text := "URGENT: verify your account. Click here. Dear customer, your account is suspended. " +
		"You are a lottery winner! Invest in bitcoin. Provide your SSN. The IRS says: PayPal is free. " +
		"Pay by gift card!! http://bit.ly/x"

	r := Analyze(text)
	if len(r.Indicators) != MaxIndicators {
		t.Fatalf("indicators: got %d, want %d", len(r.Indicators), MaxIndicators)
	}
	if r.Score != MaxScore {
		t.Errorf("score: got %d, want %d", r.Score, MaxScore)
	}
	for i, rule := range negativeRules[:MaxIndicators] {
		if r.Indicators[i].Message != rule.Message {
			t.Errorf("indicator %d: got %q, want %q", i, r.Indicators[i].Message, rule.Message)
		}
	}
	if hasMessage(r, "Shortened URL detected") {
		t.Error("structural indicators past the cap should be dropped")
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	text := "URGENT!! Your PayPal account is LOCKED. Verify your account at http://bit.ly/x. Regards"
	first := Analyze(text)
	for i := 0; i < 5; i++ {
		if got := Analyze(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs:\n got  %+v\n want %+v", i, got, first)
		}
	}
}

func TestAnalyze_HighSeverityNeverLowersScore(t *testing.T) {
	bases := []string{
		"Your parcel is waiting.",
		"Dear John Smith, thank you. Regards",
		"URGENT: verify your account now. Click here: http://bit.ly/verify",
		"We will recieve the package on a seperate day.",
	}
	for _, base := range bases {
		before := Analyze(base).Score
		after := Analyze(base + " Send a gift card.").Score
		if after < before {
			t.Errorf("%q: score dropped from %d to %d", base, before, after)
		}
	}
}

func TestTierFor(t *testing.T) {
	cases := []struct {
		score int
		want  Tier
	}{
		{0, TierSafe},
		{15, TierSafe},
		{16, TierSuspicious},
		{50, TierSuspicious},
		{51, TierDangerous},
		{100, TierDangerous},
	}
	for _, tc := range cases {
		if got := tierFor(tc.score); got != tc.want {
			t.Errorf("tierFor(%d): got %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestClamp(t *testing.T) {
	cases := map[int]int{-40: 0, 0: 0, 42: 42, 100: 100, 300: 100}
	for in, want := range cases {
		if got := clamp(in); got != want {
			t.Errorf("clamp(%d): got %d, want %d", in, got, want)
		}
	}
}

func TestAnalyze_ResultsDoNotShareIndicators(t *testing.T) {
	a := Analyze("Your parcel is waiting.")
	a.Indicators[0].Message = "mutated"

	b := Analyze("Your parcel is waiting.")
	if b.Indicators[0].Message != noFindings.Message {
		t.Errorf("second result observed mutation: %q", b.Indicators[0].Message)
	}
}

func checkInvariants(t *testing.T, text string, r Result) {
	t.Helper()
	if r.Score < MinScore || r.Score > MaxScore {
		t.Errorf("%q: score %d out of bounds", text, r.Score)
	}
	if len(r.Indicators) == 0 || len(r.Indicators) > MaxIndicators {
		t.Errorf("%q: %d indicators", text, len(r.Indicators))
	}
	if r.Tier != tierFor(r.Score) {
		t.Errorf("%q: tier %q inconsistent with score %d", text, r.Tier, r.Score)
	}
}

func TestAnalyze_Invariants(t *testing.T) {
	inputs := []string{
		"",
		"!",
		strings.Repeat("A", 10000),
		strings.Repeat("FREE MONEY!!! ", 2000),
		strings.Repeat("http://bit.ly/", 500),
		"\xff\xfe invalid utf-8 \x00",
		"Ünïcödé ÀÉÎ ÖÜ ÆØÅ",
	}
	for _, in := range inputs {
		checkInvariants(t, in, Analyze(in))
	}
}

func FuzzAnalyze(f *testing.F) {
	f.Add("URGENT: verify your account now. Click here: http://bit.ly/verify")
	f.Add("Dear John Smith, thank you. Regards")
	f.Add("PLEASE READ THIS NOTE NOW")
	f.Add("")
	f.Fuzz(func(t *testing.T, text string) {
		checkInvariants(t, text, Analyze(text))
	})
}

func BenchmarkAnalyze(b *testing.B) {
	text := strings.Repeat("URGENT: verify your account. Click here: http://bit.ly/x. Thank you. ", 100)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Analyze(text)
	}
}
