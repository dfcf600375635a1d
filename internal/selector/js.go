// File: internal/selector/js.go
package selector

import (
	"encoding/json"
	"fmt"
)

// Helpers is the shared in-page runtime prepended to every evaluated script.
// It provides document enumeration (main frame plus accessible same-origin
// iframes in DOM order), locator resolution with the id special case, a
// visibility test, and event dispatch. All iframe access is wrapped so a
// cross-origin frame is skipped, never thrown on.
const Helpers = `
function __afDocs() {
  const docs = [document];
  const frames = document.querySelectorAll('iframe');
  for (const frame of frames) {
    try {
      const doc = frame.contentDocument || (frame.contentWindow && frame.contentWindow.document);
      if (doc && doc.body) docs.push(doc);
    } catch (e) {
      // Cross-origin frame; out of scope.
    }
  }
  return docs;
}

function __afQuery(doc, sel) {
  if (!sel) return null;
  if (sel.startsWith('#')) {
    const rawId = sel.slice(1);
    const byId = doc.getElementById(rawId);
    if (byId) return byId;
    try {
      if (typeof CSS !== 'undefined' && CSS.escape) {
        const el = doc.querySelector('#' + CSS.escape(rawId));
        if (el) return el;
      }
    } catch (e) {}
    try {
      const quoted = rawId.replace(/\\/g, '\\\\').replace(/"/g, '\\"');
      const el = doc.querySelector('[id="' + quoted + '"]');
      if (el) return el;
    } catch (e) {}
  }
  try {
    return doc.querySelector(sel);
  } catch (e) {
    return null;
  }
}

function __afResolve(sel) {
  for (const doc of __afDocs()) {
    try {
      const el = __afQuery(doc, sel);
      if (el) return el;
    } catch (e) {}
  }
  return null;
}

function __afVisible(el) {
  if (!el) return false;
  const win = (el.ownerDocument && el.ownerDocument.defaultView) || window;
  const style = win.getComputedStyle(el);
  if (style.display === 'none' || style.visibility === 'hidden' || style.opacity === '0') return false;
  const rect = el.getBoundingClientRect();
  return rect.width > 0 && rect.height > 0;
}

function __afDispatch(el, types) {
  for (const type of types) {
    let ev;
    if (type === 'keydown' || type === 'keyup' || type === 'keypress') {
      ev = new KeyboardEvent(type, { bubbles: true, cancelable: true });
    } else if (type === 'input') {
      ev = new Event(type, { bubbles: true, cancelable: false });
    } else {
      ev = new Event(type, { bubbles: true, cancelable: true });
    }
    el.dispatchEvent(ev);
  }
}

function __afKey(el, type, key, keyCode) {
  el.dispatchEvent(new KeyboardEvent(type, {
    key: key, code: key, keyCode: keyCode, which: keyCode,
    bubbles: true, cancelable: true,
  }));
}

function __afSetNativeValue(el, value) {
  const proto = Object.getPrototypeOf(el);
  const desc = Object.getOwnPropertyDescriptor(proto, 'value');
  if (desc && desc.set) {
    desc.set.call(el, value);
  } else {
    el.value = value;
  }
}
`

// ResolvesScript returns a script that reports whether the locator currently
// resolves to an element, and whether that element is visible.
func ResolvesScript(sel string) string {
	return fmt.Sprintf(`%s
(() => {
  const el = __afResolve(%s);
  return { found: el !== null, visible: __afVisible(el) };
})()`, Helpers, jsString(sel))
}

// Resolution is the result shape of ResolvesScript.
type Resolution struct {
	Found   bool `json:"found"`
	Visible bool `json:"visible"`
}

func jsString(v string) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `""`
	}
	return string(b)
}
