// Package storage provides object storage access for schema definitions.
//
// It wraps the MinIO Go client behind the Client interface so that S3 and
// self-hosted MinIO are interchangeable and tests can use core/storage/mocks.
//
// On top of the client the package offers JSON helpers: ReadJSON and
// WriteJSON move one document, ListNames enumerates documents under a prefix,
// and EnsureBucket creates the bucket on startup.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
//	    return err
//	}
//	names, err := storage.ListNames(ctx, client, cfg.Storage.Bucket, "schemas/", ".json")
package storage
