/*
Package geom contains the vendor-neutral geometry model.

It defines the value types exchanged between the tool router and the vendor
adapters: coordinates, identifiers, the four geometric object kinds (Point,
Line, Surface, Volume), the unit system descriptor, and the batch-creation
request. This package is kept pure and free of external dependencies; all
behavior beyond small shape checks lives in the adapters and the router.

Identifiers are opaque strings. Whether an ID is the vendor's own stable
identifier or a registry-issued handle is an adapter concern; callers must
never parse them.
*/
package geom
