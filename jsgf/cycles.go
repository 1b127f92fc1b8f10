package jsgf

import "sort"

// DetectCycles finds cycles in the rule dependency graph. Each cycle is
// reported as the path from the repeated rule back to itself, inclusive.
// Traversal restarts from every unvisited rule, so disjoint cycles are all
// found. Callers use this to warn before attempting exhaustive enumeration
// of a grammar that would never terminate.
func (g *Grammar) DetectCycles() [][]string {
	graph := make(map[string][]string, len(g.rules))
	for name, rule := range g.rules {
		deps := make([]string, 0)
		seen := make(map[string]bool)
		for _, ref := range referencedRules(rule.Expansion) {
			ref = NormalizeRuleName(ref)
			if !seen[ref] {
				seen[ref] = true
				deps = append(deps, ref)
			}
		}
		graph[name] = deps
	}

	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string

	var dfs func(name string)
	dfs = func(name string) {
		if onStack[name] {
			// Close the cycle: slice the path from the repeated rule
			// to the current position, then repeat it.
			for i, p := range path {
				if p == name {
					cycle := make([]string, 0, len(path)-i+1)
					cycle = append(cycle, path[i:]...)
					cycle = append(cycle, name)
					cycles = append(cycles, cycle)
					break
				}
			}
			return
		}
		if visited[name] {
			return
		}
		visited[name] = true
		onStack[name] = true
		path = append(path, name)

		for _, dep := range graph[name] {
			if _, ok := g.rules[dep]; !ok {
				continue // undefined references are Validate's concern
			}
			dfs(dep)
		}

		path = path[:len(path)-1]
		onStack[name] = false
	}

	roots := g.RuleNames()
	sort.Strings(roots)
	for _, name := range roots {
		if !visited[name] {
			dfs(name)
		}
	}
	return cycles
}

// IsRecursive reports whether any rule in the grammar can reach itself
// through chained nonterminal references.
func (g *Grammar) IsRecursive() bool {
	return len(g.DetectCycles()) > 0
}

// RuleIsRecursive reports whether the named rule participates in any cycle.
func (g *Grammar) RuleIsRecursive(name string) bool {
	name = NormalizeRuleName(name)
	for _, cycle := range g.DetectCycles() {
		for _, member := range cycle {
			if member == name {
				return true
			}
		}
	}
	return false
}
