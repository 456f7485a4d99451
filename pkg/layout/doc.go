// Package layout holds the physical side of a HybridRow schema: type
// literals, compiled columns and the Builder that assembles them into an
// immutable Layout.
//
// A row is laid out as
//
//	[header][presence bitmask][fixed columns][variable columns][sparse columns]
//
// Fixed columns sit at offsets known from the layout alone. Variable columns
// follow in index order, each length prefixed, and only when their presence
// bit is set. Sparse columns are self-describing and found by path.
package layout
