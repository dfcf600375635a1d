// File: internal/fill/scripts.go
package fill

import (
	"fmt"

	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/selector"
)

// outcome is the result shape every fill script returns. Scripts never
// throw; failures come back as status "skipped" or "error" with a reason.
type outcome struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

const (
	statusFilled  = "filled"
	statusSkipped = "skipped"
	statusError   = "error"
)

// wrap builds a complete evaluated script: helpers, then an IIFE that
// resolves the selector and hands the element to the body. The body must
// assign to `result`.
func wrap(sel, body string) string {
	return fmt.Sprintf(`%s
(() => {
  let result = { status: %q, reason: 'not attempted' };
  try {
    const el = __afResolve(%s);
    if (!el) return { status: %q, reason: 'selector did not resolve' };
    %s
  } catch (e) {
    return { status: %q, reason: String(e && e.message || e) };
  }
  return result;
})()`, selector.Helpers, statusError, session.JSONEncode(sel), statusSkipped, body, statusError)
}

// textFillScript covers text, email and tel inputs. Keyboard events are
// dispatched alongside input/change because some frameworks listen to only
// one of the two families.
func textFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    el.focus();
    __afSetNativeValue(el, value);
    __afDispatch(el, ['input', 'change', 'keydown', 'keyup']);
    result = { status: %q };`, session.JSONEncode(value), statusFilled))
}

// textareaFillScript is the text routine without the keyboard events.
func textareaFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    el.focus();
    __afSetNativeValue(el, %s);
    __afDispatch(el, ['input', 'change']);
    result = { status: %q };`, session.JSONEncode(value), statusFilled))
}

func contentEditableFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    el.focus();
    el.textContent = '';
    el.textContent = %s;
    __afDispatch(el, ['input', 'change', 'keyup']);
    result = { status: %q };`, session.JSONEncode(value), statusFilled))
}

// textboxFillScript handles ARIA role=textbox widgets, which may be backed
// by a contenteditable region, a native input, or a plain element. Custom
// widgets often commit only on Enter, so an Enter pair follows the events.
func textboxFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    el.focus();
    if (el.isContentEditable) {
      el.textContent = value;
    } else if ('value' in el) {
      __afSetNativeValue(el, value);
    } else {
      el.textContent = value;
    }
    __afDispatch(el, ['focus', 'input', 'change']);
    __afKey(el, 'keydown', 'Enter', 13);
    __afKey(el, 'keyup', 'Enter', 13);
    result = { status: %q };`, session.JSONEncode(value), statusFilled))
}

// selectFillScript tries exact value and label matches first, then a
// case-insensitive substring match in either direction. No matching option
// is a silent skip.
func selectFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    const lower = value.toLowerCase();
    let matched = -1;
    for (let i = 0; i < el.options.length; i++) {
      const opt = el.options[i];
      if (opt.value === value || opt.text === value) { matched = i; break; }
    }
    if (matched < 0) {
      for (let i = 0; i < el.options.length; i++) {
        const text = el.options[i].text.toLowerCase();
        const val = el.options[i].value.toLowerCase();
        if (text.includes(lower) || lower.includes(text) ||
            val.includes(lower) || lower.includes(val)) {
          if (text.length > 0 || val.length > 0) { matched = i; break; }
        }
      }
    }
    if (matched < 0) return { status: %q, reason: 'no matching option' };
    el.selectedIndex = matched;
    __afDispatch(el, ['change']);
    result = { status: %q };`, session.JSONEncode(value), statusSkipped, statusFilled))
}

// comboboxOpenScript opens the widget and types the value when it accepts
// direct text entry. Option picking happens in a second script so the page
// gets a settle delay to render its option list.
func comboboxOpenScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    el.focus();
    el.click();
    if ('value' in el && el.tagName !== 'DIV') {
      __afSetNativeValue(el, value);
      __afDispatch(el, ['input']);
    }
    result = { status: %q };`, session.JSONEncode(value), statusFilled))
}

// comboboxPickScript searches every accessible document for a visible option
// matching the value, preferring exact case-insensitive text, then
// substring. With no match it commits via Enter as a last resort.
func comboboxPickScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    const lower = value.toLowerCase();
    const candidateSel = '[role="option"], li, option, .select-option, .dropdown-item, [data-value], [aria-selected]';
    let exact = null, partial = null;
    for (const doc of __afDocs()) {
      for (const opt of doc.querySelectorAll(candidateSel)) {
        if (!__afVisible(opt)) continue;
        const text = (opt.textContent || '').trim().toLowerCase();
        if (!text) continue;
        if (text === lower) { exact = opt; break; }
        if (!partial && (text.includes(lower) || lower.includes(text))) partial = opt;
      }
      if (exact) break;
    }
    const target = exact || partial;
    if (target) {
      target.click();
      result = { status: %q };
    } else {
      __afKey(el, 'keydown', 'Enter', 13);
      __afKey(el, 'keyup', 'Enter', 13);
      __afDispatch(el, ['change', 'blur']);
      result = { status: %q, reason: 'no visible option matched; committed via Enter' };
    }`, session.JSONEncode(value), statusFilled, statusFilled))
}

var affirmatives = map[string]bool{"true": true, "yes": true, "1": true}

// checkboxFillScript checks the box only for affirmative values.
func checkboxFillScript(sel string, affirmative bool) string {
	return wrap(sel, fmt.Sprintf(`
    const want = %t;
    if (el.checked !== want) {
      el.checked = want;
      __afDispatch(el, ['change']);
    }
    result = { status: %q };`, affirmative, statusFilled))
}

// radioFillScript checks the same-named sibling whose value or adjacent
// label text matches.
func radioFillScript(sel, value string) string {
	return wrap(sel, fmt.Sprintf(`
    const value = %s;
    const lower = value.toLowerCase();
    const doc = el.ownerDocument;
    const group = el.name
      ? doc.querySelectorAll('input[type="radio"][name="' + el.name.replace(/"/g, '\\"') + '"]')
      : [el];
    let target = null;
    for (const radio of group) {
      if ((radio.value || '').toLowerCase() === lower) { target = radio; break; }
      const label = radio.id ? doc.querySelector('label[for="' + radio.id + '"]') : radio.closest('label');
      const text = label ? (label.textContent || '').trim().toLowerCase() : '';
      if (text && (text === lower || text.includes(lower))) { target = radio; break; }
    }
    if (!target) return { status: %q, reason: 'no matching radio in group' };
    target.checked = true;
    __afDispatch(target, ['change']);
    result = { status: %q };`, session.JSONEncode(value), statusSkipped, statusFilled))
}

func dateFillScript(sel, normalized string) string {
	return wrap(sel, fmt.Sprintf(`
    el.focus();
    __afSetNativeValue(el, %s);
    __afDispatch(el, ['input', 'change']);
    result = { status: %q };`, session.JSONEncode(normalized), statusFilled))
}

// fileFillScript reconstructs the document inside the page from base64 and
// attaches it through a DataTransfer, the only scriptable path into a file
// input's FileList.
func fileFillScript(sel, base64Content, fileName, mimeType string) string {
	return wrap(sel, fmt.Sprintf(`
    const b64 = %s;
    const binary = atob(b64);
    const bytes = new Uint8Array(binary.length);
    for (let i = 0; i < binary.length; i++) bytes[i] = binary.charCodeAt(i);
    const file = new File([bytes], %s, { type: %s });
    const dt = new DataTransfer();
    dt.items.add(file);
    el.files = dt.files;
    __afDispatch(el, ['change', 'input']);
    result = { status: %q };`,
		session.JSONEncode(base64Content), session.JSONEncode(fileName),
		session.JSONEncode(mimeType), statusFilled))
}
