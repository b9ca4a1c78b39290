package coalesce

// updateBasicMaps compacts the surviving entries of infos into a final
// slice, marking each one Final the way isl_coalesce.c's
// update_basic_maps leaves every returned basic map flagged
// ISL_BASIC_MAP_FINAL once coalescing has settled on it.
func updateBasicMaps(infos []*CoalesceInfo) []*BasicMap {
	out := make([]*BasicMap, 0, len(infos))
	for _, info := range infos {
		if info.Removed {
			continue
		}
		info.Bmap.Finalize()
		out = append(out, info.Bmap)
	}
	return out
}
