// Package indent re-indents compact or minified HTML into a consistently
// indented, human-readable form.
//
// Indentation happens in three stages:
//
//  1. Protection: the bodies of raw-text elements (script, style) and whole
//     inline elements (b, em, a, ...) are swapped out for sentinels so that
//     their literal content survives untouched. Redundant whitespace is
//     collapsed at the same time.
//  2. Tokenizing: an ordered list of rules is tried against the head of the
//     remaining text. The first rule that matches decides whether the token
//     opens a level, closes a level, stays at the current level, or is
//     discarded.
//  3. Restoration: sentinels are replaced with the captured text and the
//     result is trimmed.
//
// The package does not build a DOM and does not validate markup. Unbalanced
// input is indented on a best-effort basis with indentation floored at zero.
package indent
