// Package profile implements the account and profile core for a
// link-in-bio service: credential handling, token issuance, identity
// resolution, and the relationship-aware repositories behind it.
//
// Identity:
//   - Passwords are hashed with bcrypt and checked against a strength
//     policy before storage. Tokens are HS256 JWTs whose subject is the
//     account username; Resolver turns a bearer token back into an
//     active *User and enforces role and feature checks.
//
// Repositories:
//   - Users and Tiles embed the generic repository.Repository and add
//     the domain operations (registration, authentication, password
//     change, picture URL maintenance, owner-ordered tile listings).
//     RepositoryManager wires both over one bun.DB and offers
//     transactional composition through RunInTx.
//
// Profiles:
//   - ProfileService assembles the public read model (account plus
//     tiles in display order) and renders vCard downloads.
//     PictureService coordinates the picture store (local disk or
//     S3-compatible) with the account's stored URL.
package profile
