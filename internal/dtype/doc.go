// Package dtype describes grid element types and converts their fields to
// and from packed little-endian bytes.
//
// A grid element is any fixed-size Go value: a scalar, a fixed-length
// array, or a struct of those. [Describe] inspects the type once with
// reflection and returns a [Descriptor] listing the element's fields in
// declaration order, each with a [Datatype] and a byte offset inside the
// packed element.
//
// # Type Mapping Strategy
//
// Go kinds are mapped to datatype classes as follows:
//
//	Go Kind                    | Class         | Size
//	---------------------------|---------------|----------------
//	int8/16/32/64, int         | FixedPoint    | 1/2/4/8, 8
//	uint8/16/32/64, uint       | FixedPoint    | 1/2/4/8, 8
//	float32, float64           | FloatPoint    | 4, 8
//	bool                       | Bool          | 1
//	[N]E                       | Array         | N * size(E)
//	struct                     | Compound      | sum of members
//
// Packed elements carry no padding. Pointers, slices, maps, strings,
// channels, funcs and interfaces are rejected: an element must be
// trivially copyable.
//
// # Field Names
//
// Names are taken, in order of preference, from a [FieldNamer]
// implementation, from `grid:"name"` struct tags, or synthesised as
// prop0, prop1, ... A scalar or array element has a single field.
//
// # Key Functions
//
//   - [Describe], [For]: build or fetch the cached descriptor for a type
//   - [Encode], [Decode]: convert one value of a datatype
//   - [HasFieldNames], [IsCompound], [NoPointers]: capability queries
package dtype
