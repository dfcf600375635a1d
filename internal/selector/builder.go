// File: internal/selector/builder.go

// Package selector derives stable CSS locators for discovered form elements
// and generates the in-page JavaScript used to resolve them back to live
// nodes. Building is pure Go over element snapshots; resolution happens in
// the page because only the page can try each accessible document in order.
package selector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xkilldash9x/autofill-cli/api/schemas"
)

// frameworkClassPrefixes marks class tokens emitted by CSS-in-JS and
// component frameworks. Such tokens change between builds, so a selector
// built on one is stale by the next deploy.
var frameworkClassPrefixes = []string{
	"ng-", "react-", "css-", "jss", "svelte-", "Mui", "sc-", "emotion-", "chakra-",
}

var classSegmentRe = regexp.MustCompile(`[-_]`)

// Build derives a locator for the snapshot, preferring the most stable
// signal available: id, then name, then distinguishing attributes, then a
// human-authored class, then structural position.
func Build(snap schemas.ElementSnapshot) string {
	tag := strings.ToLower(snap.TagName)

	if snap.ID != "" {
		return "#" + snap.ID
	}
	if snap.Name != "" {
		return fmt.Sprintf(`[name=%s]`, quoteAttr(snap.Name))
	}
	if snap.DataTestID != "" {
		return fmt.Sprintf(`%s[data-testid=%s]`, tag, quoteAttr(snap.DataTestID))
	}
	if snap.AriaLabel != "" {
		return fmt.Sprintf(`%s[aria-label=%s]`, tag, quoteAttr(snap.AriaLabel))
	}
	if snap.Placeholder != "" {
		return fmt.Sprintf(`%s[placeholder=%s]`, tag, quoteAttr(snap.Placeholder))
	}
	if cls := stableClass(snap.ClassName); cls != "" {
		return "." + cls
	}
	if snap.NthOfType > 0 {
		return fmt.Sprintf("%s:nth-of-type(%d)", tag, snap.NthOfType)
	}
	return tag
}

// stableClass returns the first class token that looks human-authored, or ""
// when every token is framework-generated or syntactically unusable.
func stableClass(className string) string {
	for _, token := range strings.Fields(className) {
		if isFrameworkClass(token) || !isValidClassToken(token) {
			continue
		}
		return token
	}
	return ""
}

func isFrameworkClass(token string) bool {
	for _, p := range frameworkClassPrefixes {
		if strings.HasPrefix(token, p) {
			return true
		}
	}
	// Tokens ending in a hash-like segment (letters and digits mixed, five or
	// more characters) are treated as generated, e.g. "styles__input--x7k29q".
	segments := classSegmentRe.Split(token, -1)
	last := segments[len(segments)-1]
	if len(last) >= 5 && containsDigit(last) && containsLetter(last) {
		return true
	}
	return false
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' }) >= 0
}

func containsLetter(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) >= 0
}

var validClassRe = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

func isValidClassToken(token string) bool {
	return validClassRe.MatchString(token)
}

// quoteAttr produces a double-quoted CSS attribute value with embedded quotes
// and backslashes escaped.
func quoteAttr(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}
