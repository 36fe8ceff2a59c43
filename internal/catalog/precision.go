package catalog

import "github.com/daryltucker/llm-bench/internal/model"

var precisionTags = []string{
	"FP32", "FP16",
	"FP16-INT8", "INT8", "INT8_compressed_weights", "INT8_quantized", "PT_compressed_weights",
	"OV_FP32-INT8", "OV_FP16-INT8",
	"OV_FP32-INT8_ASYM", "OV_FP32-INT8_SYM", "OV_FP16-INT8_ASYM", "OV_FP16-INT8_SYM",
	"PT_FP32-INT8", "PT_FP16-INT8", "PT_FP32-INT8_ASYM", "PT_FP32-INT8_SYM", "PT_FP16-INT8_ASYM", "PT_FP16-INT8_SYM",
	"GPTQ_INT4-FP32", "GPTQ_INT4-FP16", "INT4",
	"OV_FP16-INT4_SYM", "OV_FP16-INT4_ASYM", "OV_FP32-INT4_SYM", "OV_FP32-INT4_ASYM",
	"OV_FP32-4BIT_DEFAULT", "OV_FP16-4BIT_DEFAULT", "OV_FP32-4BIT_MAXIMUM", "OV_FP16-4BIT_MAXIMUM",
}

// PrecisionTags returns the precision catalog in order.
func PrecisionTags() []string {
	return append([]string(nil), precisionTags...)
}

func isPrecisionTag(s string) bool {
	_, ok := firstMatch(precisionTags, func(tag string) bool { return tag == s })
	return ok
}

// MatchPrecision returns the rightmost segment that exactly equals a known
// precision tag, or model.UnknownPrecision.
func MatchPrecision(segments []string) string {
	if seg, ok := lastMatch(segments, isPrecisionTag); ok {
		return seg
	}
	return model.UnknownPrecision
}
