// Package storage provides file storage for uploads and export archives.
//
// Two layers live here:
//
//   - Client wraps the MinIO Go client behind a narrow interface (bucket
//     checks, put/get/remove) so object storage interactions can be mocked
//     in tests (see core/storage/mocks).
//   - Uploader is the backend abstraction the features use. It stores
//     content under slash-separated keys and hands back access URLs. Two
//     implementations exist: LocalUploader (filesystem) and S3Uploader
//     (object storage via Client).
//
// The backend is selected by an explicit Config passed at construction;
// nothing in this package reads ambient process state.
//
// # Usage
//
//	client, err := storage.NewClient(cfg)
//	up, err := storage.NewUploader(cfg, client)
//	url, err := up.Upload(ctx, "12/34/5/hello.txt", r, size, "text/plain")
package storage
