// Package categories provides test infrastructure for category catalogs.
// It offers a fluent builder for raw hierarchies and a set of fixtures that
// mirror a typical MoneyMoney setup.
//
// Basic usage:
//
//	func TestResolve(t *testing.T) {
//		tree := categories.NewBuilder().
//			WithFixture(categories.FixtureStandard).
//			WithCategory(`Hobbies\Climbing`).
//			Tree(t)
//
//		coffee := categories.MustFind(t, tree, categories.PathCoffee)
//	}
//
// Every category gets a deterministic UUID derived from its path, so tests
// can refer to ids with ID(path) without hardcoding them.
package categories
