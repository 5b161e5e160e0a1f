// Package gateway is the only path by which client code may request a host
// mutation.
//
// Every mutation the host accepts for the bridged slices is declared here
// and classified once, at package initialization, by the default [Policy].
// Only COMMAND and PURE_STATE_WRITE mutations with a stated rationale are
// allowed. A [Descriptor] can only be obtained from the constructors for
// allowed mutations:
//
//	gw := gateway.New(host)
//	err := gw.Dispatch(gateway.LoadSearch(model.Query{Q: "angular", Scope: model.ScopeEverything}))
//
// Effect results and identity flows have no exported identifier, so client
// code cannot name them. [Gateway.Dispatch] also checks every descriptor
// against the allow-list and rejects anything else with ErrCommandNotAllowed.
package gateway
