package greeting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dop251/goja"
)

// macroPattern matches [[ ... ]] blocks inside a greeting template body.
var macroPattern = regexp.MustCompile(`\[\[\s*(.*?)\s*\]\]`)

// Fields carries the per-employee macro context: firstName, lastName,
// fullName, department, position, birthday, age.
type Fields map[string]interface{}

// FieldsForEmployee builds the macro context used by previews and sends.
func FieldsForEmployee(firstName, lastName, department, position string, birthday *time.Time, now time.Time) Fields {
	f := Fields{
		"firstName":  firstName,
		"lastName":   lastName,
		"fullName":   strings.TrimSpace(firstName + " " + lastName),
		"department": department,
		"position":   position,
		"today":      now,
	}
	if birthday != nil {
		f["birthday"] = *birthday
		age := now.Year() - birthday.Year()
		anniversary := time.Date(now.Year(), birthday.Month(), birthday.Day(), 0, 0, 0, 0, now.Location())
		if anniversary.After(now) {
			age--
		}
		f["age"] = age
	}
	return f
}

// ExpandMacros replaces every [[ ... ]] block:
//
//	[[ $field ]]                 — substitute a context field
//	[[ ?cond|ifTrue|ifFalse? ]]  — conditional on a field comparison
//	[[ #expr() ]]                — evaluate a JavaScript expression
//
// Blocks that fail to resolve are left verbatim so a typo is visible in the
// preview instead of silently vanishing.
func ExpandMacros(text string, fields Fields) string {
	return macroPattern.ReplaceAllStringFunc(text, func(match string) string {
		inner := macroPattern.FindStringSubmatch(match)
		if len(inner) < 2 {
			return match
		}
		expr := strings.TrimSpace(inner[1])
		if expr == "" {
			return match
		}

		if strings.HasPrefix(expr, "$") {
			name := strings.TrimSpace(strings.TrimPrefix(expr, "$"))
			if val, ok := fields[name]; ok {
				return stringify(val)
			}
			return match
		}

		if strings.HasPrefix(expr, "?") && strings.HasSuffix(expr, "?") {
			return expandConditional(expr, fields, match)
		}

		if strings.HasPrefix(expr, "#") {
			return expandJS(strings.TrimPrefix(expr, "#"), fields, match)
		}

		return match
	})
}

func expandConditional(expr string, fields Fields, fallback string) string {
	inner := strings.Trim(strings.TrimSpace(expr), "?")
	parts := strings.SplitN(strings.TrimSpace(inner), "|", 3)
	if len(parts) < 3 {
		return fallback
	}

	condition := stripQuotes(parts[0])
	trueVal := stripQuotes(parts[1])
	falseVal := stripQuotes(parts[2])
	if condition == "" {
		return fallback
	}

	op := ""
	for _, candidate := range []string{"==", "!=", ">", "<"} {
		if strings.Contains(condition, candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return fallback
	}

	left, right, found := strings.Cut(condition, op)
	if !found {
		return fallback
	}
	leftValue := fields[strings.TrimPrefix(strings.TrimSpace(left), "$")]
	rightValue := strings.TrimSpace(right)

	cond := false
	switch op {
	case ">":
		lf, lok := asFloat(leftValue)
		rf, rerr := strconv.ParseFloat(rightValue, 64)
		cond = lok && rerr == nil && lf > rf
	case "<":
		lf, lok := asFloat(leftValue)
		rf, rerr := strconv.ParseFloat(rightValue, 64)
		cond = lok && rerr == nil && lf < rf
	case "==":
		cond = looseEqual(leftValue, rightValue)
	case "!=":
		cond = !looseEqual(leftValue, rightValue)
	}

	if cond {
		return trueVal
	}
	return falseVal
}

func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, `"`, "")
	s = strings.ReplaceAll(s, `'`, "")
	return strings.TrimSpace(s)
}

func expandJS(code string, fields Fields, fallback string) string {
	vm := goja.New()
	for k, v := range fields {
		if strings.TrimSpace(k) == "" {
			continue
		}
		val := toJSValue(vm, v)
		_ = vm.Set(k, val)
		_ = vm.Set("$"+k, val)
	}
	registerBuiltins(vm)

	type result struct {
		val string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := vm.RunString(code)
		if err != nil {
			ch <- result{err: err}
			return
		}
		ch <- result{val: v.String()}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return fallback
		}
		return r.val
	case <-time.After(time.Second):
		vm.Interrupt("macro execution timeout")
		return fallback
	}
}

func toJSValue(vm *goja.Runtime, value interface{}) goja.Value {
	switch v := value.(type) {
	case time.Time:
		return jsDate(vm, v)
	case *time.Time:
		if v == nil {
			return goja.Null()
		}
		return jsDate(vm, *v)
	default:
		return vm.ToValue(value)
	}
}

func jsDate(vm *goja.Runtime, t time.Time) goja.Value {
	v, err := vm.RunString(fmt.Sprintf("new Date(%d)", t.UnixMilli()))
	if err != nil {
		return vm.ToValue(t.Format(time.RFC3339))
	}
	return v
}

func registerBuiltins(vm *goja.Runtime) {
	// dayjs(value).format(layout) / .fromNow()
	_ = vm.Set("dayjs", func(call goja.FunctionCall) goja.Value {
		t := time.Now()
		if parsed, ok := parseTimeArgument(call.Argument(0)); ok {
			t = parsed
		}
		obj := vm.NewObject()
		_ = obj.Set("format", func(c goja.FunctionCall) goja.Value {
			return vm.ToValue(formatByDayjsLayout(t, c.Argument(0).String()))
		})
		_ = obj.Set("fromNow", func(goja.FunctionCall) goja.Value {
			return vm.ToValue(fromNowString(t, time.Now()))
		})
		return obj
	})

	_ = vm.Set("fromNow", func(call goja.FunctionCall) goja.Value {
		t, ok := parseTimeArgument(call.Argument(0))
		if !ok {
			return vm.ToValue("")
		}
		return vm.ToValue(fromNowString(t, time.Now()))
	})

	_ = vm.Set("center", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(fmt.Sprintf(`<p align="center">%s</p>`, call.Argument(0).String()))
	})

	_ = vm.Set("color", func(call goja.FunctionCall) goja.Value {
		text := call.Argument(0).String()
		c := call.Argument(1).String()
		if c == "undefined" {
			c = ""
		}
		return vm.ToValue(fmt.Sprintf(`<span style="color: %s">%s</span>`, c, text))
	})

	_ = vm.Set("size", func(call goja.FunctionCall) goja.Value {
		text := call.Argument(0).String()
		sz := call.Argument(1).String()
		if sz == "" || sz == "undefined" {
			sz = "1em"
		}
		return vm.ToValue(fmt.Sprintf(`<span style="font-size: %s">%s</span>`, sz, text))
	})
}

func parseTimeArgument(value goja.Value) (time.Time, bool) {
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return time.Time{}, false
	}
	switch t := value.Export().(type) {
	case time.Time:
		return t, true
	case int64:
		if t > 1_000_000_000_000 {
			return time.UnixMilli(t), true
		}
		return time.Unix(t, 0), true
	case float64:
		n := int64(t)
		if n > 1_000_000_000_000 {
			return time.UnixMilli(n), true
		}
		return time.Unix(n, 0), true
	case string:
		return parseTimeString(t)
	default:
		return parseTimeString(fmt.Sprint(t))
	}
}

func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ts > 1_000_000_000_000 {
			return time.UnixMilli(ts), true
		}
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

func formatByDayjsLayout(t time.Time, layout string) string {
	layout = strings.TrimSpace(layout)
	if layout == "" || layout == "undefined" {
		layout = "YYYY-MM-DD"
	}
	replacer := strings.NewReplacer(
		"YYYY", "2006",
		"YY", "06",
		"MM", "01",
		"DD", "02",
		"HH", "15",
		"mm", "04",
		"ss", "05",
	)
	return t.Format(replacer.Replace(layout))
}

func fromNowString(from, to time.Time) string {
	diff := to.Sub(from)
	past := diff >= 0
	if !past {
		diff = -diff
	}

	var text string
	switch {
	case diff < 45*time.Second:
		text = "a few seconds"
	case diff < 90*time.Second:
		text = "a minute"
	case diff < 45*time.Minute:
		text = fmt.Sprintf("%d minutes", int(math.Round(diff.Minutes())))
	case diff < 90*time.Minute:
		text = "an hour"
	case diff < 22*time.Hour:
		text = fmt.Sprintf("%d hours", int(math.Round(diff.Hours())))
	case diff < 36*time.Hour:
		text = "a day"
	case diff < 26*24*time.Hour:
		text = fmt.Sprintf("%d days", int(math.Round(diff.Hours()/24)))
	case diff < 45*24*time.Hour:
		text = "a month"
	case diff < 320*24*time.Hour:
		text = fmt.Sprintf("%d months", int(math.Round(diff.Hours()/(24*30))))
	case diff < 548*24*time.Hour:
		text = "a year"
	default:
		text = fmt.Sprintf("%d years", int(math.Round(diff.Hours()/(24*365))))
	}

	if past {
		return text + " ago"
	}
	return "in " + text
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02")
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}

func looseEqual(left interface{}, right string) bool {
	if lf, ok := asFloat(left); ok {
		if rf, err := strconv.ParseFloat(strings.TrimSpace(right), 64); err == nil {
			return lf == rf
		}
	}
	return strings.EqualFold(strings.TrimSpace(stringify(left)), strings.TrimSpace(right))
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(v)), 64)
		return f, err == nil
	}
}
