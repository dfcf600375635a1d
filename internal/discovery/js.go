// File: internal/discovery/js.go
package discovery

import (
	"fmt"

	"github.com/xkilldash9x/autofill-cli/internal/browser/session"
	"github.com/xkilldash9x/autofill-cli/internal/selector"
)

// collectionHelpers harvests element snapshots from every accessible
// document. Label discovery mirrors how a person reads the form: explicit
// label, wrapping label, ARIA text, placeholder, then nearby short text.
const collectionHelpers = `
function __afLabelFor(el, doc) {
  if (el.id) {
    try {
      const explicit = doc.querySelector('label[for="' + el.id.replace(/"/g, '\\"') + '"]');
      if (explicit && explicit.textContent.trim()) return explicit.textContent.trim();
    } catch (e) {}
  }
  const wrapping = el.closest('label');
  if (wrapping && wrapping.textContent.trim()) return wrapping.textContent.trim();
  const aria = el.getAttribute('aria-label');
  if (aria) return aria.trim();
  const labelledBy = el.getAttribute('aria-labelledby');
  if (labelledBy) {
    const parts = [];
    for (const id of labelledBy.split(/\s+/)) {
      const ref = doc.getElementById(id);
      if (ref) parts.push(ref.textContent.trim());
    }
    const joined = parts.join(' ').trim();
    if (joined) return joined;
  }
  const placeholder = el.getAttribute('placeholder');
  if (placeholder) return placeholder.trim();
  const dataLabel = el.getAttribute('data-label');
  if (dataLabel) return dataLabel.trim();
  let sib = el.previousSibling;
  while (sib) {
    if (sib.nodeType === Node.TEXT_NODE) {
      const text = sib.textContent.trim();
      if (text && text.length < 50 && !text.includes('*')) return text;
    }
    if (sib.nodeType === Node.ELEMENT_NODE) break;
    sib = sib.previousSibling;
  }
  const parent = el.parentElement;
  if (parent) {
    for (const child of parent.children) {
      if (child === el) continue;
      const text = (child.textContent || '').trim();
      if (text && text.length < 50 && !text.includes('*')) return text;
    }
  }
  return '';
}

function __afNthOfType(el) {
  if (!el.parentElement) return 1;
  let n = 0;
  for (const sib of el.parentElement.children) {
    if (sib.tagName === el.tagName) {
      n++;
      if (sib === el) return n;
    }
  }
  return 1;
}

function __afWidgetKind(el) {
  const tag = el.tagName.toLowerCase();
  if (tag === 'select') return 'select';
  if (tag === 'textarea') return 'textarea';
  if (tag === 'input') {
    const type = (el.type || 'text').toLowerCase();
    switch (type) {
      case 'email': return 'email';
      case 'tel': return 'tel';
      case 'checkbox': return 'checkbox';
      case 'radio': return 'radio';
      case 'date': case 'month': return 'date';
      case 'file': return 'file';
      default: return 'text';
    }
  }
  if (el.isContentEditable) return 'contenteditable';
  const role = el.getAttribute('role');
  if (role === 'textbox') return 'textbox';
  return 'combobox';
}

function __afSnapshot(el, doc, docIndex, widget) {
  let options = null;
  if (el.tagName.toLowerCase() === 'select') {
    options = [];
    for (const opt of el.options) {
      options.push({ value: opt.value, text: opt.text.trim() });
    }
  }
  return {
    tagName: el.tagName,
    type: el.type || '',
    id: el.id || '',
    name: el.getAttribute('name') || '',
    className: (typeof el.className === 'string' ? el.className : '') || '',
    dataTestId: el.getAttribute('data-testid') || '',
    ariaLabel: el.getAttribute('aria-label') || '',
    placeholder: el.getAttribute('placeholder') || '',
    label: __afLabelFor(el, doc),
    widget: widget,
    options: options,
    nthOfType: __afNthOfType(el),
    docIndex: docIndex,
    contentEditable: !!el.isContentEditable,
  };
}

function __afCollect(relaxed) {
  // The strict pass skips hidden and zero-size elements; the relaxed retry
  // keeps them and honors only disabled/readOnly.
  const results = [];
  const docs = __afDocs();
  for (let docIndex = 0; docIndex < docs.length; docIndex++) {
    const doc = docs[docIndex];
    try {
      const seen = new Set();
      const excluded = (el) => {
        if (el.disabled === true || el.readOnly === true) return true;
        if (relaxed) return false;
        return !__afVisible(el);
      };
      const push = (el, widget) => {
        if (seen.has(el)) return;
        seen.add(el);
        results.push(__afSnapshot(el, doc, docIndex, widget));
      };

      for (const el of doc.querySelectorAll('input, textarea, select')) {
        if (el.type === 'hidden' || excluded(el)) continue;
        push(el, __afWidgetKind(el));
      }
      for (const el of doc.querySelectorAll('[contenteditable="true"]')) {
        if (excluded(el)) continue;
        push(el, 'contenteditable');
      }
      for (const el of doc.querySelectorAll('[role="textbox"]:not([contenteditable])')) {
        if (excluded(el)) continue;
        push(el, 'textbox');
      }
      const comboSel = '[role="combobox"], [aria-haspopup="listbox"], [class*="dropdown"], [class*="select"]';
      for (const el of doc.querySelectorAll(comboSel)) {
        if (excluded(el) || seen.has(el)) continue;
        const tag = el.tagName.toLowerCase();
        if (tag === 'option' || tag === 'label' || tag === 'form') continue;
        push(el, __afWidgetKind(el));
      }
    } catch (e) {
      // Frame became inaccessible mid-scan; skip it.
    }
  }
  return results;
}
`

func collectScript(relaxed bool) string {
	return fmt.Sprintf(`%s
%s
__afCollect(%t)`, selector.Helpers, collectionHelpers, relaxed)
}

// waitScript observes the main document and every accessible iframe body for
// mutations until a field-capable element appears or the timeout elapses. It
// always resolves; absence of fields is the caller's problem. The observer
// is disconnected on every exit path.
func waitScript(timeoutMs int64) string {
	return fmt.Sprintf(`%s
%s
new Promise((resolve) => {
  const found = () => __afCollect(false).length > 0;
  if (found()) { resolve(true); return; }

  const observers = [];
  let timer = null;
  const finish = (ok) => {
    if (timer) clearTimeout(timer);
    for (const obs of observers) {
      try { obs.disconnect(); } catch (e) {}
    }
    resolve(ok);
  };

  const onMutation = () => { if (found()) finish(true); };
  for (const doc of __afDocs()) {
    try {
      const obs = new MutationObserver(onMutation);
      obs.observe(doc.body, {
        childList: true,
        subtree: true,
        attributes: true,
        attributeFilter: ['style', 'class', 'hidden'],
      });
      observers.push(obs);
    } catch (e) {}
  }
  timer = setTimeout(() => finish(found()), %d);
})`, selector.Helpers, collectionHelpers, timeoutMs)
}

// containerScript finds the smallest ancestor of the first field holding at
// least three field-capable descendants, walking up at most five levels, and
// returns its serialized markup capped at maxBytes.
func containerScript(firstFieldSelector string, maxBytes int) string {
	return fmt.Sprintf(`%s
%s
(() => {
  const el = __afResolve(%s);
  if (!el) return '';
  const fieldSel = 'input:not([type="hidden"]), textarea, select, [contenteditable="true"], [role="textbox"], [role="combobox"]';
  let node = el;
  for (let depth = 0; depth < 5 && node.parentElement; depth++) {
    node = node.parentElement;
    if (node.querySelectorAll(fieldSel).length >= 3) break;
  }
  const html = node.outerHTML || '';
  return html.slice(0, %d);
})()`, selector.Helpers, collectionHelpers, session.JSONEncode(firstFieldSelector), maxBytes)
}
