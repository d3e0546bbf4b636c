// Package services implements HTTP clients for the research backend.
//
// [ResearchClient] is the typed client for the /research REST surface with a
// fixed request timeout and uniform error classification via [RequestError].
// [APIService] is a raw request wrapper used by the debug commands.
package services
