// SPDX-License-Identifier: MIT

// Package ae implements the time-lagged autoencoder: an encoder that maps an
// observation x_t to a low-dimensional latent code and a decoder trained to
// reconstruct the future observation x_{t+τ} from that code.
//
// Architecture (widths from Config.HiddenSizes = [h1, h2], latent k, input D):
//
//	encoder: D →Linear→ h1 →[BN]→act→[Dropout] →Linear→ h2 →…→ Linear → k →[latent act]
//	decoder: k →Linear→ h2 →[BN]→act→[Dropout] →Linear→ h1 →…→ Linear → D
//
// Training minimizes the mean squared error between decoder(encoder(x_t))
// and x_{t+τ} with Adam at a fixed learning rate, one update per batch.
// Layers are implemented directly on gonum mat.Dense with hand-written
// backward passes; there is no autograd.
//
// Modes:
//
//	Training mode samples dropout masks and normalizes with batch statistics.
//	Evaluation mode (validation loss, Transform) disables dropout and uses the
//	running batch-norm statistics, so repeated Transform calls are identical.
//
// Randomness:
//
//	Config.Seed seeds weight initialization and dropout through independent
//	streams (dataset.DeriveRand). Seed 0 draws a fresh seed from the clock.
package ae
