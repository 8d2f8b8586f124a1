// Package probe reads media metadata with ffprobe for filename
// placeholders. A single JSON call per file yields dimensions, duration
// and codec; [ProbeAll] runs those calls for a batch with bounded
// concurrency. Failures ffprobe reports on stderr are mapped to
// [ErrNotMedia], [ErrPermission] and [ErrNotFound] where recognized.
package probe
