/*
Package fea defines the driven port between the tool router and the vendor
adapters.

The Adapter interface is the full generic-operation contract: every vendor
variant implements the same operation set with the same externally observed
semantics, even though the native automation calls differ substantially.
Operations a vendor cannot express are declared through the capability set
and fail with an unsupported-operation error before any vendor call is made.

The package also owns the error taxonomy. All vendor-native failures are
caught at the adapter boundary and re-expressed as a *fea.Error carrying one
of the fixed codes; none propagate unmapped.
*/
package fea
