package export

import "fmt"

// normalizeScript runs in the page before capture. It covers what the
// markup pass cannot see: computed styles coming from style sheets, and
// custom properties on the document root. Values that still use an
// unsupported color function are pinned to the fallback as inline styles.
var normalizeScript = fmt.Sprintf(`(() => {
  const bad = /\b(?:oklch|oklab|lab|lch|color-mix|color)\(/i;
  const fg = %q, bg = %q;
  const props = [
    'color', 'background-color', 'background-image',
    'border-top-color', 'border-right-color', 'border-bottom-color', 'border-left-color',
    'outline-color', 'text-decoration-color', 'caret-color', 'column-rule-color',
    'fill', 'stroke', 'stop-color', 'flood-color', 'lighting-color', 'box-shadow', 'text-shadow',
  ];
  const pick = (p) => p.startsWith('background') ? (p === 'background-image' ? 'none' : bg) : (p.endsWith('shadow') ? 'none' : fg);
  let fixed = 0;
  for (const el of document.querySelectorAll('*')) {
    const cs = getComputedStyle(el);
    for (const p of props) {
      const v = cs.getPropertyValue(p);
      if (v && bad.test(v)) {
        el.style.setProperty(p, pick(p), 'important');
        fixed++;
      }
    }
    for (const a of ['fill', 'stroke', 'stop-color', 'flood-color', 'lighting-color', 'color']) {
      const v = el.getAttribute && el.getAttribute(a);
      if (v && bad.test(v)) {
        el.setAttribute(a, fg);
        fixed++;
      }
    }
  }
  const root = document.documentElement;
  const rootStyle = getComputedStyle(root);
  for (const sheet of Array.from(document.styleSheets)) {
    let rules;
    try { rules = sheet.cssRules; } catch (e) { continue; }
    for (const rule of Array.from(rules)) {
      if (!rule.style) continue;
      for (const name of Array.from(rule.style)) {
        if (!name.startsWith('--')) continue;
        const v = rootStyle.getPropertyValue(name);
        if (v && bad.test(v)) {
          root.style.setProperty(name, /bg|background/i.test(name) ? bg : fg);
          fixed++;
        }
      }
    }
  }
  return fixed;
})()`, FallbackForeground, FallbackBackground)
