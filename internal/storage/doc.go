// Package storage turns asset references from job files into readable local
// paths.
//
// References come in four shapes: a storage marker (local://voice.wav or
// /storage/voice.wav) resolved under paths.storage_dir, a file:// URL, a
// plain filesystem path, or an http(s) URL that is fetched into the job
// workspace.
package storage
