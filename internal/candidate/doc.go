// Package candidate generates lookalike domain candidates for a target.
//
// Two interchangeable strategies implement the Source interface:
// LocalSource produces rule-based permutations with no registration
// check, and DNSTwistSource delegates to the external dnstwist tool and
// returns only registered domains with their DNS metadata.
package candidate
