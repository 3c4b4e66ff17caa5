// Package azblob implements the benchmark store on Azure Blob Storage.
//
// Uploads are single Put Blob requests through UploadBuffer with the SDK
// retry policy disabled. The client authenticates with a connection string
// or with an account name and shared key.
package azblob
