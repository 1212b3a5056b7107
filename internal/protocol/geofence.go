package protocol

// WithinRadius reports whether point lies inside the circular geofence of
// the given radius (in encoded units) around center. The boundary is
// inclusive: a point exactly radius away is inside.
//
// The test is a planar one. Observed radii are small (a hundred encoded
// units is on the order of a hundred miles), so a locally flat
// approximation is adequate and is what the recorded fixtures assume.
// Deltas are computed in widened signed integers recovered from the
// out-of-band sign flags, and the comparison is done on squared integer
// distances so no intermediate rounding can swallow fixture-scale deltas.
func WithinRadius(center, point Point, radius uint64) bool {
	dLat := point.Lat.signed() - center.Lat.signed()
	dLon := point.Lon.signed() - center.Lon.signed()
	dist2 := uint64(dLat*dLat) + uint64(dLon*dLon)
	return dist2 <= radius*radius
}
