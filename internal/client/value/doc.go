// Package value models document field values as a closed tagged union and
// converts them to and from the document store's JSON wire format.
//
// The set of kinds is fixed: Null, Bool, Integer, Double, String, Timestamp,
// Array, Map and Fallback. Fallback is what FromNative produces for a Go value
// of an unsupported type; it holds the value's fmt.Sprint form and goes over
// the wire as a plain string, so it decodes back as String.
//
// Native Go numbers always become Double. Integer values only exist when built
// with Integer or decoded from an integerValue on the wire.
package value
