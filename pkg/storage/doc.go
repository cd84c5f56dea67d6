// Package storage persists opaque blobs on the local filesystem or in an
// S3-compatible bucket behind one [Storage] interface.
//
// Put stores a blob under a key and returns its locator: the absolute file
// path for [Local], the object key for [S3]. Every other method takes that
// locator, so derived blobs can be addressed by suffixing it:
//
//	loc, err := store.Put(ctx, uuid.NewString(), bytes.NewReader(data), int64(len(data)), "")
//	thumb, err := store.Get(ctx, loc+"_250")
//
// [Local] writes through a temporary file that is fsynced and renamed into
// place, so a blob is either complete or absent. Abandoned temporaries are
// removed by [Local.SweepTemp].
package storage
