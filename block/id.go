package block

// ID is the 16-bit block identifier field: bits 0-12 carry the block
// number, bits 13-15 the revision of that block's layout.
type ID uint16

// IDAll is the wildcard identifier accepted by the stream operations
// that filter or count on block id.
const IDAll ID = 0xFFFF

// Number returns the revision-independent block number.
func (id ID) Number() uint16 { return uint16(id) & 0x1FFF }

// Revision returns the layout revision.
func (id ID) Revision() uint8 { return uint8(uint16(id) >> 13) }

// WithRevision returns the identifier with the revision bits replaced.
func (id ID) WithRevision(rev uint8) ID {
	return ID(uint16(id)&0x1FFF | uint16(rev&0x7)<<13)
}

// Matches reports whether id selects other. IDAll selects everything;
// otherwise block numbers are compared, ignoring revisions.
func (id ID) Matches(other ID) bool {
	return id == IDAll || id.Number() == other.Number()
}

// Block numbers of the blocks this module needs to recognise by name.
const (
	NumMeasEpoch   uint16 = 4027
	NumMeasExtra   uint16 = 4000
	NumMeas3Ranges uint16 = 4109
	NumEndOfMeas   uint16 = 5922

	NumGPSRawCA   uint16 = 4017
	NumGPSRawL2C  uint16 = 4018
	NumGPSRawL5   uint16 = 4019
	NumGLORawCA   uint16 = 4026
	NumGALRawFNAV uint16 = 4022
	NumGALRawINAV uint16 = 4023
	NumGEORawL1   uint16 = 4020
	NumBDSRaw     uint16 = 4047
	NumQZSRawL1CA uint16 = 4066

	NumGPSNav uint16 = 5891
	NumGPSAlm uint16 = 5892
	NumGPSIon uint16 = 5893
	NumGPSUtc uint16 = 5894

	NumGLONav  uint16 = 4004
	NumGLOAlm  uint16 = 4005
	NumGLOTime uint16 = 4036

	NumGALNav    uint16 = 4002
	NumGALAlm    uint16 = 4003
	NumGALIon    uint16 = 4030
	NumGALUtc    uint16 = 4031
	NumGALGstGps uint16 = 4032

	NumGEONav uint16 = 5896

	NumBDSNav uint16 = 4081
	NumBDSAlm uint16 = 4119
	NumBDSIon uint16 = 4120
	NumBDSUtc uint16 = 4121

	NumQZSNav uint16 = 4095
	NumQZSAlm uint16 = 4116

	NumPVTCartesian    uint16 = 4006
	NumPVTGeodetic     uint16 = 4007
	NumDOP             uint16 = 4001
	NumPosCovCartesian uint16 = 5905
	NumPosCovGeodetic  uint16 = 5906
	NumVelCovCartesian uint16 = 5907
	NumVelCovGeodetic  uint16 = 5908
	NumBaseVectorCart  uint16 = 4043
	NumEndOfPVT        uint16 = 5921

	NumAttEuler    uint16 = 5938
	NumAttCovEuler uint16 = 5939
	NumEndOfAtt    uint16 = 5943

	NumReceiverTime uint16 = 5914
	NumXPPSOffset   uint16 = 5911

	NumExtEvent       uint16 = 5924
	NumExtEventPVTCar uint16 = 4037

	NumDiffCorrIn  uint16 = 5919
	NumBaseStation uint16 = 5949
	NumRTCMDatum   uint16 = 4049

	NumReceiverStatus uint16 = 4014
	NumReceiverSetup  uint16 = 5902
	NumQualityInd     uint16 = 4082

	NumCommands uint16 = 4015
	NumComment  uint16 = 5936

	NumExtSensorMeas uint16 = 4050

	NumINSNavCart uint16 = 4225
	NumINSNavGeod uint16 = 4226

	NumLBandBeams         uint16 = 4189
	NumLBandTrackerStatus uint16 = 4201
)

// Category is a bitmask classifying blocks by function. The same bits
// select block families in the stream merge options.
type Category uint32

const (
	CategoryNone          Category = 0
	CategoryMeasurement   Category = 1 << 0
	CategoryNavPage       Category = 1 << 1
	CategoryGPSDecoded    Category = 1 << 2
	CategoryGLODecoded    Category = 1 << 3
	CategoryGALDecoded    Category = 1 << 4
	CategoryGEODecoded    Category = 1 << 5
	CategoryPVT           Category = 1 << 6
	CategoryAttitude      Category = 1 << 7
	CategoryReceiverTime  Category = 1 << 8
	CategoryExtEvent      Category = 1 << 9
	CategoryDiffCorr      Category = 1 << 10
	CategoryStatus        Category = 1 << 11
	CategoryMisc          Category = 1 << 12
	CategoryExtSensor     Category = 1 << 13
	CategoryIntegratedPVT Category = 1 << 14
	CategoryBDSDecoded    Category = 1 << 16
	CategoryQZSDecoded    Category = 1 << 17
	CategoryLBand         Category = 1 << 18

	// CategoryAny selects every category.
	CategoryAny Category = 0x7FFFFFFF
)

// navApplicability lists, per block number, how long a navigation
// block stays applicable after its reported timestamp, in seconds.
// Ephemerides use their nominal fit intervals; almanacs, ionosphere
// and UTC parameter sets stay usable much longer.
var navApplicability = map[uint16]float64{
	NumGPSNav: 14400,
	NumGALNav: 14400,
	NumBDSNav: 14400,
	NumQZSNav: 14400,
	NumGLONav: 1800,
	NumGEONav: 600,

	NumGPSAlm: 604800,
	NumGLOAlm: 604800,
	NumGALAlm: 604800,
	NumBDSAlm: 604800,
	NumQZSAlm: 604800,

	NumGPSIon: 86400,
	NumGALIon: 86400,
	NumBDSIon: 86400,

	NumGPSUtc:    86400,
	NumGALUtc:    86400,
	NumBDSUtc:    86400,
	NumGLOTime:   86400,
	NumGALGstGps: 86400,
}

var categories = map[uint16]Category{
	NumMeasEpoch:   CategoryMeasurement,
	NumMeasExtra:   CategoryMeasurement,
	NumMeas3Ranges: CategoryMeasurement,
	NumEndOfMeas:   CategoryMeasurement,

	NumGPSRawCA:   CategoryNavPage,
	NumGPSRawL2C:  CategoryNavPage,
	NumGPSRawL5:   CategoryNavPage,
	NumGLORawCA:   CategoryNavPage,
	NumGALRawFNAV: CategoryNavPage,
	NumGALRawINAV: CategoryNavPage,
	NumGEORawL1:   CategoryNavPage,
	NumBDSRaw:     CategoryNavPage,
	NumQZSRawL1CA: CategoryNavPage,

	NumGPSNav: CategoryGPSDecoded,
	NumGPSAlm: CategoryGPSDecoded,
	NumGPSIon: CategoryGPSDecoded,
	NumGPSUtc: CategoryGPSDecoded,

	NumGLONav:  CategoryGLODecoded,
	NumGLOAlm:  CategoryGLODecoded,
	NumGLOTime: CategoryGLODecoded,

	NumGALNav:    CategoryGALDecoded,
	NumGALAlm:    CategoryGALDecoded,
	NumGALIon:    CategoryGALDecoded,
	NumGALUtc:    CategoryGALDecoded,
	NumGALGstGps: CategoryGALDecoded,

	NumGEONav: CategoryGEODecoded,

	NumBDSNav: CategoryBDSDecoded,
	NumBDSAlm: CategoryBDSDecoded,
	NumBDSIon: CategoryBDSDecoded,
	NumBDSUtc: CategoryBDSDecoded,

	NumQZSNav: CategoryQZSDecoded,
	NumQZSAlm: CategoryQZSDecoded,

	NumPVTCartesian:    CategoryPVT,
	NumPVTGeodetic:     CategoryPVT,
	NumDOP:             CategoryPVT,
	NumPosCovCartesian: CategoryPVT,
	NumPosCovGeodetic:  CategoryPVT,
	NumVelCovCartesian: CategoryPVT,
	NumVelCovGeodetic:  CategoryPVT,
	NumBaseVectorCart:  CategoryPVT,
	NumEndOfPVT:        CategoryPVT,

	NumAttEuler:    CategoryAttitude,
	NumAttCovEuler: CategoryAttitude,
	NumEndOfAtt:    CategoryAttitude,

	NumReceiverTime: CategoryReceiverTime,
	NumXPPSOffset:   CategoryReceiverTime,

	NumExtEvent:       CategoryExtEvent,
	NumExtEventPVTCar: CategoryExtEvent,

	NumDiffCorrIn:  CategoryDiffCorr,
	NumBaseStation: CategoryDiffCorr,
	NumRTCMDatum:   CategoryDiffCorr,

	NumReceiverStatus: CategoryStatus,
	NumReceiverSetup:  CategoryStatus,
	NumQualityInd:     CategoryStatus,

	NumExtSensorMeas: CategoryExtSensor,

	NumINSNavCart: CategoryIntegratedPVT,
	NumINSNavGeod: CategoryIntegratedPVT,

	NumLBandBeams:         CategoryLBand,
	NumLBandTrackerStatus: CategoryLBand,
}

// CategoryOf returns the category of the given block number. Unknown
// numbers fall into CategoryMisc.
func CategoryOf(number uint16) Category {
	if c, ok := categories[number]; ok {
		return c
	}

	return CategoryMisc
}
