// Package strex provides helpers to scan and tokenize strings.
//
// A Scanner walks a string character by character while keeping track of
// line and column numbers. A Lexer applies an ordered set of rules on top of
// a Scanner to produce tokens.
package strex
