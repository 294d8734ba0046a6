package archive

import "github.com/klauspost/compress/zstd"

// estimator is reused across calls; zstd.Encoder is safe for concurrent use.
var estimator *zstd.Encoder

func init() {
	var err error
	estimator, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		panic("archive: zstd estimator initialization failed: " + err.Error())
	}
}

// EstimateRatio probes how well sample compresses and returns the expected
// original/compressed ratio (>= 1 means compressible). Used to log the
// likely archive size before packing; the packer itself always bounds by
// raw size, so the estimate never affects partitioning.
func EstimateRatio(sample []byte) float64 {
	if len(sample) == 0 {
		return 1
	}
	compressed := estimator.EncodeAll(sample, nil)
	if len(compressed) == 0 || len(compressed) >= len(sample) {
		return 1
	}
	return float64(len(sample)) / float64(len(compressed))
}
