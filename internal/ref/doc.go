// Package ref creates and resolves forward-reference proxies.
//
// The Factory is the only constructor of hint.Ref values: it caches by
// (scope, name) so proxies are singletons per pair, and it records every
// proxy ever created so the whole population can be invalidated in bulk.
// Canonicalize decides which module a possibly-relative reference resolves
// against, trying a fixed ordered sequence of strategies.
package ref
