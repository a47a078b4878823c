// Package errors provides structured, actionable error messages for the
// weft CLI.
//
// Each error has a unique code (e.g., "E020") registered with a category,
// a short message, a longer explanation and a documentation URL. Runtime
// errors from the reactive and render packages are mapped to codes with
// FromRuntime.
//
// # Error Categories
//
//   - runtime: effect and owner failures
//   - render: component and instance failures
//   - hydration: mismatches between prerendered and live trees
//   - live: WebSocket session failures
//   - config: weft.json / weft.yaml problems
//   - cli: command usage and output failures
//   - export: S3 upload failures
//
// # Usage
//
//	err := errors.New("E124").
//	    WithSuggestion("Set export.bucket in weft.json or pass --bucket")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E124: Export bucket not set
//	//
//	//   weft export uploads to S3 and needs a bucket name.
//	//
//	//   Hint: Set export.bucket in weft.json or pass --bucket
package errors
