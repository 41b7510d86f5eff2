// Package cache stores intermediate artefacts of a register run on disk.
//
// Entries are content-addressed: a [Key] names the register sheet, the page,
// the kind of artefact (a column crop, the OCR lines of a crop) and the
// geometry of the cropped region. The digest of that key is the file name, so
// two units of work never share an entry and no locking is needed. Callers
// check before computing through [Cache.GetOrCompute]:
//
//	c, err := cache.New(dir)
//	data, err := c.GetOrCompute(ctx, key, func(ctx context.Context) ([]byte, error) {
//	    return runOCR(ctx, crop)
//	})
//
// A nil *Cache is valid and never hits.
package cache
