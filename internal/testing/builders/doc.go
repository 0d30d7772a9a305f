// Package builders provides fluent constructors for collection offer
// transactions used by tests.
//
//	builders.Bid(alice, collection, 500).Build()
//	builders.Reprice(alice, collection, 1, 800).Value(300).Build()
//	builders.Fill(seller, collection, 7).MinAmount(450).Finder(carol).Build()
package builders
