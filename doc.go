// Package forgeseal provides a Go client SDK for managing encrypted
// Actions secrets on a GitHub-compatible source forge.
//
// Secret values never travel in plaintext readable by the forge channel:
// each value is sealed with anonymous public-key encryption (NaCl sealed
// box, the construction behind libsodium's crypto_box_seal) under the
// repository's secrets public key, then submitted as base64 ciphertext.
//
// Basic usage:
//
//	if err := forgeseal.Init(); err != nil {
//	    log.Fatal(err) // no sealing can proceed without a working subsystem
//	}
//
//	client, err := forgeseal.New(os.Getenv("FORGE_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := client.SetSecret(ctx, "octo/widgets", "DEPLOY_TOKEN", []byte(token)); err != nil {
//	    log.Fatal(err)
//	}
//
// The sealing primitive is also exposed directly as [SealSecret] and
// [SealSecretToBuffer] for callers that fetch the public key themselves
// or manage their own output buffers.
//
// Beyond secrets, the client covers the forge surfaces the surrounding
// orchestration needs: workflow control and dispatch, fork management,
// and Actions billing usage. The orchestrate package builds multi-account
// rotation on top of it.
package forgeseal
