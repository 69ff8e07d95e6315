// Package tag addresses module scopes inside a computation graph.
//
// A [Tag] is the canonical, slash-delimited path of a module scope, always
// ending in "/" (for example "root/encoder/layer1/"). The backend cannot take
// slashes in a single route parameter, so tags travel on the wire with ";"
// separators and no trailing separator ("root;encoder;layer1"). [Decode] and
// [Encode] convert between the two and satisfy the round-trip law
//
//	Decode(Encode(t)) == t
//
// for every tag whose segments are non-empty and free of ";".
//
// # Navigation
//
// [Parent] drops the last segment and clamps at [Root]; [Child] appends one
// segment after validating it:
//
//	t := tag.Root                        // "root/"
//	t, _ = tag.Child(t, "encoder")       // "root/encoder/"
//	t = tag.Parent(t)                    // "root/"
//	t = tag.Parent(t)                    // still "root/"
package tag
