// Package demo holds the example applications served and rendered by the
// weft command: a counter, a keyed todo list and an asynchronously loaded
// profile card.
//
// Each app is a plain element.Element constructor, so the same code runs
// under the HTML renderer, the live DOM renderer and the test harness.
package demo
