// Package social holds the content domain around the auth core: posts,
// comments, likes, and block lists. Everything here assumes the caller was
// already authenticated; ownership checks are enforced at the storage level.
package social
