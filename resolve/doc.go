// Package resolve determines which parcels of the Bestandsverzeichnis a
// right in Abteilung 2 or 3 encumbers.
//
// A right names its parcels in "column 1" as a list of
// [model.Spalte1Eintrag] references: a BV number, optionally narrowed by
// Flur/Flurstück filters, or a bare Flur/Flurstück filter (BV number 0) that
// narrows the whole result. Parcels are then followed to the later BV
// entries that continue them, since a register frequently renumbers a parcel
// when it is carried forward.
//
// # Basic Usage
//
//	snap := resolve.NewSnapshot(gb.Titelblatt.GrundbuchVon, &gb.Bestandsverzeichnis)
//	r := resolve.NewResolver()
//	res, err := r.Resolve(ctx, snap, resolve.Request{Refs: refs, RawReference: "1, 2"})
//
// The snapshot is read-only; many rights may be resolved concurrently
// against it, see [Resolver.ResolveAll].
package resolve
