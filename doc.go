// Package proconio reads whitespace delimited input, as found in competitive programming
// problems, into typed go values.
//
// A [Source] provides the tokens of the input. [OnceSource] reads its input once and splits it
// into tokens lazily. The [Decoder] walks the type of a target and pulls exactly as many tokens
// out of the [Source] as the type asks for:
//
//   - Scalars (bool, integers, floats, string and [encoding.TextUnmarshaler]) read one token.
//   - [Char] reads a token of exactly one character.
//   - [Chars] and [Bytes] read one token as its characters or bytes.
//   - A fixed size array [N]T reads N values of T.
//   - A slice []T first reads its length from the input, then that many values of T.
//     Use [Sized], [SizedBy] or [SizedFunc] if the length is known up front instead.
//   - A struct reads its fields in declaration order. A struct tag like `proconio:"len=N"`
//     takes the length of a slice field from the previously read field N, or from a literal.
//
// Targets are bound strictly left to right, a binding can refer to lengths bound before:
//
//	source := proconio.FromString("3 1 2 3")
//
//	var n int
//	var a []int
//	err := proconio.Scan(source, &n, proconio.SizedBy(&a, &n))
//
// Input that does not match the declared shape is an error: [ErrEndOfInput] if the input ends
// early, a [ConversionError] if a token does not parse. The Must variants, like [MustScan] and
// [Input], panic instead.
package proconio
