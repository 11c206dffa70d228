package exifbox

// IFD paths, as used by the TIFF/EXIF tag tree.
const (
	IfdRoot = "IFD"
	IfdExif = "IFD/Exif"
	IfdGPS  = "IFD/GPSInfo"
)

// Tag identifiers written by the synthesis layer. Root IFD tags first,
// then EXIF IFD, then GPS.
const (
	TagMake        uint16 = 0x010f
	TagModel       uint16 = 0x0110
	TagArtist      uint16 = 0x013b
	TagXMP         uint16 = 0x02bc
	TagCopyright   uint16 = 0x8298
	TagCameraLabel uint16 = 0xc615

	TagExposureTime     uint16 = 0x829a
	TagFNumber          uint16 = 0x829d
	TagExposureProgram  uint16 = 0x8822
	TagISO              uint16 = 0x8827
	TagSensitivityType  uint16 = 0x8830
	TagISOSpeed         uint16 = 0x8833
	TagDateTimeOriginal uint16 = 0x9003
	TagCreateDate       uint16 = 0x9004
	TagShutterSpeed     uint16 = 0x9201
	TagApertureValue    uint16 = 0x9202
	TagExposureComp     uint16 = 0x9204
	TagUserComment      uint16 = 0x9286
	TagFocalLength      uint16 = 0x920a
	TagFocalLength35mm  uint16 = 0xa405
	TagLensMake         uint16 = 0xa433
	TagLensModel        uint16 = 0xa434
	TagLensLabel        uint16 = 0xfdea

	TagGPSLatitudeRef  uint16 = 0x0001
	TagGPSLatitude     uint16 = 0x0002
	TagGPSLongitudeRef uint16 = 0x0003
	TagGPSLongitude    uint16 = 0x0004
)
