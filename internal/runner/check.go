package runner

import "fmt"

// CheckStatus は1件のチェック結果なのだ。
type CheckStatus int

const (
	CheckPass CheckStatus = iota
	CheckWarn
	CheckFail
)

func (s CheckStatus) String() string {
	switch s {
	case CheckPass:
		return "PASS"
	case CheckWarn:
		return "WARN"
	case CheckFail:
		return "FAIL"
	}
	return fmt.Sprintf("CheckStatus(%d)", int(s))
}

// Check はハーネスの1項目なのだ。
type Check struct {
	Group  string      `json:"group"`
	Name   string      `json:"name"`
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail,omitempty"`
}

// Verdict はレポート全体の判定なのだ。
type Verdict int

const (
	VerdictGo Verdict = iota
	VerdictWarnings
	VerdictFix
)

func (v Verdict) String() string {
	switch v {
	case VerdictGo:
		return "all systems go"
	case VerdictWarnings:
		return "ready with warnings"
	case VerdictFix:
		return "fix failures first"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Report はチェック結果の一覧なのだ。
type Report struct {
	Checks []Check `json:"checks"`
}

func (r *Report) add(group, name string, status CheckStatus, detail string) {
	r.Checks = append(r.Checks, Check{Group: group, Name: name, Status: status, Detail: detail})
}

func (r *Report) pass(group, name string) {
	r.add(group, name, CheckPass, "")
}

// expect は ok なら PASS、そうでなければ FAIL を記録するのだ
func (r *Report) expect(group, name string, ok bool, detail string) {
	if ok {
		r.pass(group, name)
		return
	}
	r.add(group, name, CheckFail, detail)
}

// Counts は状態ごとの件数を返すのだ。
func (r Report) Counts() (pass, warn, fail int) {
	for _, c := range r.Checks {
		switch c.Status {
		case CheckPass:
			pass++
		case CheckWarn:
			warn++
		case CheckFail:
			fail++
		}
	}
	return pass, warn, fail
}

// Verdict は FAIL が1件でもあれば VerdictFix、WARN があれば VerdictWarnings を返すのだ。
func (r Report) Verdict() Verdict {
	_, warn, fail := r.Counts()
	switch {
	case fail > 0:
		return VerdictFix
	case warn > 0:
		return VerdictWarnings
	}
	return VerdictGo
}

// Failed は FAIL のチェックだけを返すのだ。
func (r Report) Failed() []Check {
	var out []Check
	for _, c := range r.Checks {
		if c.Status == CheckFail {
			out = append(out, c)
		}
	}
	return out
}
