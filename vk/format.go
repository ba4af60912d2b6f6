/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package vk

type Format int32

const (
	FormatUndefined                Format = 0
	FormatR4G4UnormPack8           Format = 1
	FormatR4G4B4A4UnormPack16      Format = 2
	FormatB4G4R4A4UnormPack16      Format = 3
	FormatR5G6B5UnormPack16        Format = 4
	FormatB5G6R5UnormPack16        Format = 5
	FormatR5G5B5A1UnormPack16      Format = 6
	FormatB5G5R5A1UnormPack16      Format = 7
	FormatA1R5G5B5UnormPack16      Format = 8
	FormatR8Unorm                  Format = 9
	FormatR8Snorm                  Format = 10
	FormatR8Uscaled                Format = 11
	FormatR8Sscaled                Format = 12
	FormatR8Uint                   Format = 13
	FormatR8Sint                   Format = 14
	FormatR8Srgb                   Format = 15
	FormatR8G8Unorm                Format = 16
	FormatR8G8Snorm                Format = 17
	FormatR8G8Uscaled              Format = 18
	FormatR8G8Sscaled              Format = 19
	FormatR8G8Uint                 Format = 20
	FormatR8G8Sint                 Format = 21
	FormatR8G8Srgb                 Format = 22
	FormatR8G8B8Unorm              Format = 23
	FormatR8G8B8Snorm              Format = 24
	FormatR8G8B8Uscaled            Format = 25
	FormatR8G8B8Sscaled            Format = 26
	FormatR8G8B8Uint               Format = 27
	FormatR8G8B8Sint               Format = 28
	FormatR8G8B8Srgb               Format = 29
	FormatB8G8R8Unorm              Format = 30
	FormatB8G8R8Snorm              Format = 31
	FormatB8G8R8Uscaled            Format = 32
	FormatB8G8R8Sscaled            Format = 33
	FormatB8G8R8Uint               Format = 34
	FormatB8G8R8Sint               Format = 35
	FormatB8G8R8Srgb               Format = 36
	FormatR8G8B8A8Unorm            Format = 37
	FormatR8G8B8A8Snorm            Format = 38
	FormatR8G8B8A8Uscaled          Format = 39
	FormatR8G8B8A8Sscaled          Format = 40
	FormatR8G8B8A8Uint             Format = 41
	FormatR8G8B8A8Sint             Format = 42
	FormatR8G8B8A8Srgb             Format = 43
	FormatB8G8R8A8Unorm            Format = 44
	FormatB8G8R8A8Snorm            Format = 45
	FormatB8G8R8A8Uscaled          Format = 46
	FormatB8G8R8A8Sscaled          Format = 47
	FormatB8G8R8A8Uint             Format = 48
	FormatB8G8R8A8Sint             Format = 49
	FormatB8G8R8A8Srgb             Format = 50
	FormatA8B8G8R8UnormPack32      Format = 51
	FormatA8B8G8R8SnormPack32      Format = 52
	FormatA8B8G8R8UscaledPack32    Format = 53
	FormatA8B8G8R8SscaledPack32    Format = 54
	FormatA8B8G8R8UintPack32       Format = 55
	FormatA8B8G8R8SintPack32       Format = 56
	FormatA8B8G8R8SrgbPack32       Format = 57
	FormatA2R10G10B10UnormPack32   Format = 58
	FormatA2R10G10B10SnormPack32   Format = 59
	FormatA2R10G10B10UscaledPack32 Format = 60
	FormatA2R10G10B10SscaledPack32 Format = 61
	FormatA2R10G10B10UintPack32    Format = 62
	FormatA2R10G10B10SintPack32    Format = 63
	FormatA2B10G10R10UnormPack32   Format = 64
	FormatA2B10G10R10SnormPack32   Format = 65
	FormatA2B10G10R10UscaledPack32 Format = 66
	FormatA2B10G10R10SscaledPack32 Format = 67
	FormatA2B10G10R10UintPack32    Format = 68
	FormatA2B10G10R10SintPack32    Format = 69
	FormatR16Unorm                 Format = 70
	FormatR16Snorm                 Format = 71
	FormatR16Uscaled               Format = 72
	FormatR16Sscaled               Format = 73
	FormatR16Uint                  Format = 74
	FormatR16Sint                  Format = 75
	FormatR16Sfloat                Format = 76
	FormatR16G16Unorm              Format = 77
	FormatR16G16Snorm              Format = 78
	FormatR16G16Uscaled            Format = 79
	FormatR16G16Sscaled            Format = 80
	FormatR16G16Uint               Format = 81
	FormatR16G16Sint               Format = 82
	FormatR16G16Sfloat             Format = 83
	FormatR16G16B16Unorm           Format = 84
	FormatR16G16B16Snorm           Format = 85
	FormatR16G16B16Uscaled         Format = 86
	FormatR16G16B16Sscaled         Format = 87
	FormatR16G16B16Uint            Format = 88
	FormatR16G16B16Sint            Format = 89
	FormatR16G16B16Sfloat          Format = 90
	FormatR16G16B16A16Unorm        Format = 91
	FormatR16G16B16A16Snorm        Format = 92
	FormatR16G16B16A16Uscaled      Format = 93
	FormatR16G16B16A16Sscaled      Format = 94
	FormatR16G16B16A16Uint         Format = 95
	FormatR16G16B16A16Sint         Format = 96
	FormatR16G16B16A16Sfloat       Format = 97
	FormatR32Uint                  Format = 98
	FormatR32Sint                  Format = 99
	FormatR32Sfloat                Format = 100
	FormatR32G32Uint               Format = 101
	FormatR32G32Sint               Format = 102
	FormatR32G32Sfloat             Format = 103
	FormatR32G32B32Uint            Format = 104
	FormatR32G32B32Sint            Format = 105
	FormatR32G32B32Sfloat          Format = 106
	FormatR32G32B32A32Uint         Format = 107
	FormatR32G32B32A32Sint         Format = 108
	FormatR32G32B32A32Sfloat       Format = 109
	FormatR64Uint                  Format = 110
	FormatR64Sint                  Format = 111
	FormatR64Sfloat                Format = 112
	FormatR64G64Uint               Format = 113
	FormatR64G64Sint               Format = 114
	FormatR64G64Sfloat             Format = 115
	FormatR64G64B64Uint            Format = 116
	FormatR64G64B64Sint            Format = 117
	FormatR64G64B64Sfloat          Format = 118
	FormatR64G64B64A64Uint         Format = 119
	FormatR64G64B64A64Sint         Format = 120
	FormatR64G64B64A64Sfloat       Format = 121
	FormatB10G11R11UfloatPack32    Format = 122
	FormatE5B9G9R9UfloatPack32     Format = 123
	FormatD16Unorm                 Format = 124
	FormatX8D24UnormPack32         Format = 125
	FormatD32Sfloat                Format = 126
	FormatS8Uint                   Format = 127
	FormatD16UnormS8Uint           Format = 128
	FormatD24UnormS8Uint           Format = 129
	FormatD32SfloatS8Uint          Format = 130
	FormatBC1RGBUnormBlock         Format = 131
	FormatBC1RGBSrgbBlock          Format = 132
	FormatBC1RGBAUnormBlock        Format = 133
	FormatBC1RGBASrgbBlock         Format = 134
	FormatBC2UnormBlock            Format = 135
	FormatBC2SrgbBlock             Format = 136
	FormatBC3UnormBlock            Format = 137
	FormatBC3SrgbBlock             Format = 138
	FormatBC4UnormBlock            Format = 139
	FormatBC4SnormBlock            Format = 140
	FormatBC5UnormBlock            Format = 141
	FormatBC5SnormBlock            Format = 142
	FormatBC6HUfloatBlock          Format = 143
	FormatBC6HSfloatBlock          Format = 144
	FormatBC7UnormBlock            Format = 145
	FormatBC7SrgbBlock             Format = 146
	FormatETC2R8G8B8UnormBlock     Format = 147
	FormatETC2R8G8B8SrgbBlock      Format = 148
	FormatETC2R8G8B8A1UnormBlock   Format = 149
	FormatETC2R8G8B8A1SrgbBlock    Format = 150
	FormatETC2R8G8B8A8UnormBlock   Format = 151
	FormatETC2R8G8B8A8SrgbBlock    Format = 152
	FormatEACR11UnormBlock         Format = 153
	FormatEACR11SnormBlock         Format = 154
	FormatEACR11G11UnormBlock      Format = 155
	FormatEACR11G11SnormBlock      Format = 156
	FormatASTC4x4UnormBlock        Format = 157
	FormatASTC4x4SrgbBlock         Format = 158
	FormatASTC5x4UnormBlock        Format = 159
	FormatASTC5x4SrgbBlock         Format = 160
	FormatASTC5x5UnormBlock        Format = 161
	FormatASTC5x5SrgbBlock         Format = 162
	FormatASTC6x5UnormBlock        Format = 163
	FormatASTC6x5SrgbBlock         Format = 164
	FormatASTC6x6UnormBlock        Format = 165
	FormatASTC6x6SrgbBlock         Format = 166
	FormatASTC8x5UnormBlock        Format = 167
	FormatASTC8x5SrgbBlock         Format = 168
	FormatASTC8x6UnormBlock        Format = 169
	FormatASTC8x6SrgbBlock         Format = 170
	FormatASTC8x8UnormBlock        Format = 171
	FormatASTC8x8SrgbBlock         Format = 172
	FormatASTC10x5UnormBlock       Format = 173
	FormatASTC10x5SrgbBlock        Format = 174
	FormatASTC10x6UnormBlock       Format = 175
	FormatASTC10x6SrgbBlock        Format = 176
	FormatASTC10x8UnormBlock       Format = 177
	FormatASTC10x8SrgbBlock        Format = 178
	FormatASTC10x10UnormBlock      Format = 179
	FormatASTC10x10SrgbBlock       Format = 180
	FormatASTC12x10UnormBlock      Format = 181
	FormatASTC12x10SrgbBlock       Format = 182
	FormatASTC12x12UnormBlock      Format = 183
	FormatASTC12x12SrgbBlock       Format = 184
)

var formatNames = [...]string{
	"Undefined",
	"R4G4UnormPack8",
	"R4G4B4A4UnormPack16",
	"B4G4R4A4UnormPack16",
	"R5G6B5UnormPack16",
	"B5G6R5UnormPack16",
	"R5G5B5A1UnormPack16",
	"B5G5R5A1UnormPack16",
	"A1R5G5B5UnormPack16",
	"R8Unorm",
	"R8Snorm",
	"R8Uscaled",
	"R8Sscaled",
	"R8Uint",
	"R8Sint",
	"R8Srgb",
	"R8G8Unorm",
	"R8G8Snorm",
	"R8G8Uscaled",
	"R8G8Sscaled",
	"R8G8Uint",
	"R8G8Sint",
	"R8G8Srgb",
	"R8G8B8Unorm",
	"R8G8B8Snorm",
	"R8G8B8Uscaled",
	"R8G8B8Sscaled",
	"R8G8B8Uint",
	"R8G8B8Sint",
	"R8G8B8Srgb",
	"B8G8R8Unorm",
	"B8G8R8Snorm",
	"B8G8R8Uscaled",
	"B8G8R8Sscaled",
	"B8G8R8Uint",
	"B8G8R8Sint",
	"B8G8R8Srgb",
	"R8G8B8A8Unorm",
	"R8G8B8A8Snorm",
	"R8G8B8A8Uscaled",
	"R8G8B8A8Sscaled",
	"R8G8B8A8Uint",
	"R8G8B8A8Sint",
	"R8G8B8A8Srgb",
	"B8G8R8A8Unorm",
	"B8G8R8A8Snorm",
	"B8G8R8A8Uscaled",
	"B8G8R8A8Sscaled",
	"B8G8R8A8Uint",
	"B8G8R8A8Sint",
	"B8G8R8A8Srgb",
	"A8B8G8R8UnormPack32",
	"A8B8G8R8SnormPack32",
	"A8B8G8R8UscaledPack32",
	"A8B8G8R8SscaledPack32",
	"A8B8G8R8UintPack32",
	"A8B8G8R8SintPack32",
	"A8B8G8R8SrgbPack32",
	"A2R10G10B10UnormPack32",
	"A2R10G10B10SnormPack32",
	"A2R10G10B10UscaledPack32",
	"A2R10G10B10SscaledPack32",
	"A2R10G10B10UintPack32",
	"A2R10G10B10SintPack32",
	"A2B10G10R10UnormPack32",
	"A2B10G10R10SnormPack32",
	"A2B10G10R10UscaledPack32",
	"A2B10G10R10SscaledPack32",
	"A2B10G10R10UintPack32",
	"A2B10G10R10SintPack32",
	"R16Unorm",
	"R16Snorm",
	"R16Uscaled",
	"R16Sscaled",
	"R16Uint",
	"R16Sint",
	"R16Sfloat",
	"R16G16Unorm",
	"R16G16Snorm",
	"R16G16Uscaled",
	"R16G16Sscaled",
	"R16G16Uint",
	"R16G16Sint",
	"R16G16Sfloat",
	"R16G16B16Unorm",
	"R16G16B16Snorm",
	"R16G16B16Uscaled",
	"R16G16B16Sscaled",
	"R16G16B16Uint",
	"R16G16B16Sint",
	"R16G16B16Sfloat",
	"R16G16B16A16Unorm",
	"R16G16B16A16Snorm",
	"R16G16B16A16Uscaled",
	"R16G16B16A16Sscaled",
	"R16G16B16A16Uint",
	"R16G16B16A16Sint",
	"R16G16B16A16Sfloat",
	"R32Uint",
	"R32Sint",
	"R32Sfloat",
	"R32G32Uint",
	"R32G32Sint",
	"R32G32Sfloat",
	"R32G32B32Uint",
	"R32G32B32Sint",
	"R32G32B32Sfloat",
	"R32G32B32A32Uint",
	"R32G32B32A32Sint",
	"R32G32B32A32Sfloat",
	"R64Uint",
	"R64Sint",
	"R64Sfloat",
	"R64G64Uint",
	"R64G64Sint",
	"R64G64Sfloat",
	"R64G64B64Uint",
	"R64G64B64Sint",
	"R64G64B64Sfloat",
	"R64G64B64A64Uint",
	"R64G64B64A64Sint",
	"R64G64B64A64Sfloat",
	"B10G11R11UfloatPack32",
	"E5B9G9R9UfloatPack32",
	"D16Unorm",
	"X8D24UnormPack32",
	"D32Sfloat",
	"S8Uint",
	"D16UnormS8Uint",
	"D24UnormS8Uint",
	"D32SfloatS8Uint",
	"BC1RGBUnormBlock",
	"BC1RGBSrgbBlock",
	"BC1RGBAUnormBlock",
	"BC1RGBASrgbBlock",
	"BC2UnormBlock",
	"BC2SrgbBlock",
	"BC3UnormBlock",
	"BC3SrgbBlock",
	"BC4UnormBlock",
	"BC4SnormBlock",
	"BC5UnormBlock",
	"BC5SnormBlock",
	"BC6HUfloatBlock",
	"BC6HSfloatBlock",
	"BC7UnormBlock",
	"BC7SrgbBlock",
	"ETC2R8G8B8UnormBlock",
	"ETC2R8G8B8SrgbBlock",
	"ETC2R8G8B8A1UnormBlock",
	"ETC2R8G8B8A1SrgbBlock",
	"ETC2R8G8B8A8UnormBlock",
	"ETC2R8G8B8A8SrgbBlock",
	"EACR11UnormBlock",
	"EACR11SnormBlock",
	"EACR11G11UnormBlock",
	"EACR11G11SnormBlock",
	"ASTC4x4UnormBlock",
	"ASTC4x4SrgbBlock",
	"ASTC5x4UnormBlock",
	"ASTC5x4SrgbBlock",
	"ASTC5x5UnormBlock",
	"ASTC5x5SrgbBlock",
	"ASTC6x5UnormBlock",
	"ASTC6x5SrgbBlock",
	"ASTC6x6UnormBlock",
	"ASTC6x6SrgbBlock",
	"ASTC8x5UnormBlock",
	"ASTC8x5SrgbBlock",
	"ASTC8x6UnormBlock",
	"ASTC8x6SrgbBlock",
	"ASTC8x8UnormBlock",
	"ASTC8x8SrgbBlock",
	"ASTC10x5UnormBlock",
	"ASTC10x5SrgbBlock",
	"ASTC10x6UnormBlock",
	"ASTC10x6SrgbBlock",
	"ASTC10x8UnormBlock",
	"ASTC10x8SrgbBlock",
	"ASTC10x10UnormBlock",
	"ASTC10x10SrgbBlock",
	"ASTC12x10UnormBlock",
	"ASTC12x10SrgbBlock",
	"ASTC12x12UnormBlock",
	"ASTC12x12SrgbBlock",
}

func (f Format) String() string {
	if f >= 0 && int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "Unknown"
}

/*
FormatInfo describes the memory footprint of a format. For uncompressed formats
the block is a single texel.
*/
type FormatInfo struct {
	BlockExtent Extent3D
	BlockSize   uint32
	Aspect      ImageAspectFlags
	Compressed  bool
	Components  uint32
}

var formatTable = [...]FormatInfo{
	{},
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 2}, // R4G4UnormPack8
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 4}, // R4G4B4A4UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 4}, // B4G4R4A4UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 3}, // R5G6B5UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 3}, // B5G6R5UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 4}, // R5G5B5A1UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 4}, // B5G5R5A1UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 4}, // A1R5G5B5UnormPack16
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectColorBit, Components: 1}, // R8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 2}, // R8G8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // R8G8B8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectColorBit, Components: 3}, // B8G8R8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // R8G8B8A8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // B8G8R8A8Srgb
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8UnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8SnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8UscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8SscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8UintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8SintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A8B8G8R8SrgbPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10UnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10SnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10UscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10SscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10UintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2R10G10B10SintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10UnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10SnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10UscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10SscaledPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10UintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 4}, // A2B10G10R10SintPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectColorBit, Components: 1}, // R16Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 2}, // R16G16Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 6, Aspect: ImageAspectColorBit, Components: 3}, // R16G16B16Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Snorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Uscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Sscaled
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 4}, // R16G16B16A16Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 1}, // R32Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 1}, // R32Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 1}, // R32Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 2}, // R32G32Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 2}, // R32G32Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 2}, // R32G32Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 12, Aspect: ImageAspectColorBit, Components: 3}, // R32G32B32Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 12, Aspect: ImageAspectColorBit, Components: 3}, // R32G32B32Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 12, Aspect: ImageAspectColorBit, Components: 3}, // R32G32B32Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 4}, // R32G32B32A32Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 4}, // R32G32B32A32Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 4}, // R32G32B32A32Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 1}, // R64Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 1}, // R64Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Components: 1}, // R64Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 2}, // R64G64Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 2}, // R64G64Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Components: 2}, // R64G64Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 24, Aspect: ImageAspectColorBit, Components: 3}, // R64G64B64Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 24, Aspect: ImageAspectColorBit, Components: 3}, // R64G64B64Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 24, Aspect: ImageAspectColorBit, Components: 3}, // R64G64B64Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 32, Aspect: ImageAspectColorBit, Components: 4}, // R64G64B64A64Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 32, Aspect: ImageAspectColorBit, Components: 4}, // R64G64B64A64Sint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 32, Aspect: ImageAspectColorBit, Components: 4}, // R64G64B64A64Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 3}, // B10G11R11UfloatPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectColorBit, Components: 3}, // E5B9G9R9UfloatPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 2, Aspect: ImageAspectDepthBit, Components: 1}, // D16Unorm
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectDepthBit, Components: 1}, // X8D24UnormPack32
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectDepthBit, Components: 1}, // D32Sfloat
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 1, Aspect: ImageAspectStencilBit, Components: 1}, // S8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 3, Aspect: ImageAspectDepthBit | ImageAspectStencilBit, Components: 2}, // D16UnormS8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 4, Aspect: ImageAspectDepthBit | ImageAspectStencilBit, Components: 2}, // D24UnormS8Uint
	{BlockExtent: Extent3D{1, 1, 1}, BlockSize: 5, Aspect: ImageAspectDepthBit | ImageAspectStencilBit, Components: 2}, // D32SfloatS8Uint
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // BC1RGBUnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // BC1RGBSrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC1RGBAUnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC1RGBASrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC2UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC2SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC3UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC3SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 1}, // BC4UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 1}, // BC4SnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 2}, // BC5UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 2}, // BC5SnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // BC6HUfloatBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // BC6HSfloatBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC7UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // BC7SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // ETC2R8G8B8UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 3}, // ETC2R8G8B8SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ETC2R8G8B8A1UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ETC2R8G8B8A1SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ETC2R8G8B8A8UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ETC2R8G8B8A8SrgbBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 1}, // EACR11UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 8, Aspect: ImageAspectColorBit, Compressed: true, Components: 1}, // EACR11SnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 2}, // EACR11G11UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 2}, // EACR11G11SnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC4x4UnormBlock
	{BlockExtent: Extent3D{4, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC4x4SrgbBlock
	{BlockExtent: Extent3D{5, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC5x4UnormBlock
	{BlockExtent: Extent3D{5, 4, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC5x4SrgbBlock
	{BlockExtent: Extent3D{5, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC5x5UnormBlock
	{BlockExtent: Extent3D{5, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC5x5SrgbBlock
	{BlockExtent: Extent3D{6, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC6x5UnormBlock
	{BlockExtent: Extent3D{6, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC6x5SrgbBlock
	{BlockExtent: Extent3D{6, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC6x6UnormBlock
	{BlockExtent: Extent3D{6, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC6x6SrgbBlock
	{BlockExtent: Extent3D{8, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x5UnormBlock
	{BlockExtent: Extent3D{8, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x5SrgbBlock
	{BlockExtent: Extent3D{8, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x6UnormBlock
	{BlockExtent: Extent3D{8, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x6SrgbBlock
	{BlockExtent: Extent3D{8, 8, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x8UnormBlock
	{BlockExtent: Extent3D{8, 8, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC8x8SrgbBlock
	{BlockExtent: Extent3D{10, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x5UnormBlock
	{BlockExtent: Extent3D{10, 5, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x5SrgbBlock
	{BlockExtent: Extent3D{10, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x6UnormBlock
	{BlockExtent: Extent3D{10, 6, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x6SrgbBlock
	{BlockExtent: Extent3D{10, 8, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x8UnormBlock
	{BlockExtent: Extent3D{10, 8, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x8SrgbBlock
	{BlockExtent: Extent3D{10, 10, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x10UnormBlock
	{BlockExtent: Extent3D{10, 10, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC10x10SrgbBlock
	{BlockExtent: Extent3D{12, 10, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC12x10UnormBlock
	{BlockExtent: Extent3D{12, 10, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC12x10SrgbBlock
	{BlockExtent: Extent3D{12, 12, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC12x12UnormBlock
	{BlockExtent: Extent3D{12, 12, 1}, BlockSize: 16, Aspect: ImageAspectColorBit, Compressed: true, Components: 4}, // ASTC12x12SrgbBlock
}

// Info returns the zero FormatInfo for unknown formats.
func (f Format) Info() FormatInfo {
	if f >= 0 && int(f) < len(formatTable) {
		return formatTable[f]
	}
	return FormatInfo{}
}

func (f Format) BlockExtent() Extent3D {
	return f.Info().BlockExtent
}

func (f Format) BlockSize() uint32 {
	return f.Info().BlockSize
}

func (f Format) IsCompressed() bool {
	return f.Info().Compressed
}

func (f Format) AspectMask() ImageAspectFlags {
	return f.Info().Aspect
}

func (f Format) HasDepth() bool {
	return (f.Info().Aspect & ImageAspectDepthBit) != 0
}

func (f Format) HasStencil() bool {
	return (f.Info().Aspect & ImageAspectStencilBit) != 0
}

func (f Format) IsDepthStencil() bool {
	return f.HasDepth() || f.HasStencil()
}
