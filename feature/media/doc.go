// Package media moves record images from local handles into the blob store.
//
// Uploader sniffs the content type, rejects anything that is not an image and
// writes the file under <prefix>/<uuid>-<basename>. The returned reference is
// a permanent URL when storage.public_url is set and a presigned GET URL
// otherwise. Spool holds images received over HTTP until they are committed.
package media
