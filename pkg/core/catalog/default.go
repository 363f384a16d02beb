package catalog

const (
	Flammable = "Flammable"
	Corrosive = "Corrosive"
	Toxic     = "Toxic"
	Oxidizer  = "Oxidizer"
	Irritant  = "Irritant"
	NonHazard = "Non-hazardous"
)

var defaultEntries = []Entry{
	{Name: "Ethanol", Formula: "C2H5OH", CAS: "64-17-5", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 46.07, Density: 0.789, BoilingPoint: 78.37, MeltingPoint: -114.1},
	{Name: "Methanol", Formula: "CH3OH", CAS: "67-56-1", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 32.04, Density: 0.792, BoilingPoint: 64.7, MeltingPoint: -97.6},
	{Name: "Acetone", Formula: "C3H6O", CAS: "67-64-1", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 58.08, Density: 0.784, BoilingPoint: 56.05, MeltingPoint: -94.7},
	{Name: "Hydrochloric Acid", Formula: "HCl", CAS: "7647-01-0", HazardClass: Corrosive, State: "liquid", Unit: "mL", MolecularWeight: 36.46, Density: 1.18, BoilingPoint: 48, MeltingPoint: -27.32},
	{Name: "Sulfuric Acid", Formula: "H2SO4", CAS: "7664-93-9", HazardClass: Corrosive, State: "liquid", Unit: "mL", MolecularWeight: 98.08, Density: 1.83, BoilingPoint: 337, MeltingPoint: 10.31},
	{Name: "Nitric Acid", Formula: "HNO3", CAS: "7697-37-2", HazardClass: Oxidizer, State: "liquid", Unit: "mL", MolecularWeight: 63.01, Density: 1.51, BoilingPoint: 83, MeltingPoint: -42},
	{Name: "Sodium Hydroxide", Formula: "NaOH", CAS: "1310-73-2", HazardClass: Corrosive, State: "solid", Unit: "g", MolecularWeight: 40.00, Density: 2.13, BoilingPoint: 1388, MeltingPoint: 323},
	{Name: "Acetic Acid", Formula: "CH3COOH", CAS: "64-19-7", HazardClass: Corrosive, State: "liquid", Unit: "mL", MolecularWeight: 60.05, Density: 1.049, BoilingPoint: 118.1, MeltingPoint: 16.6},
	{Name: "Dichloromethane", Formula: "CH2Cl2", CAS: "75-09-2", HazardClass: Toxic, State: "liquid", Unit: "mL", MolecularWeight: 84.93, Density: 1.33, BoilingPoint: 39.6, MeltingPoint: -96.7},
	{Name: "Chloroform", Formula: "CHCl3", CAS: "67-66-3", HazardClass: Toxic, State: "liquid", Unit: "mL", MolecularWeight: 119.38, Density: 1.49, BoilingPoint: 61.2, MeltingPoint: -63.5},
	{Name: "Toluene", Formula: "C7H8", CAS: "108-88-3", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 92.14, Density: 0.867, BoilingPoint: 110.6, MeltingPoint: -95},
	{Name: "Hexane", Formula: "C6H14", CAS: "110-54-3", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 86.18, Density: 0.655, BoilingPoint: 68.7, MeltingPoint: -95.3},
	{Name: "Ethyl Acetate", Formula: "C4H8O2", CAS: "141-78-6", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 88.11, Density: 0.902, BoilingPoint: 77.1, MeltingPoint: -83.6},
	{Name: "Hydrogen Peroxide", Formula: "H2O2", CAS: "7722-84-1", HazardClass: Oxidizer, State: "liquid", Unit: "mL", MolecularWeight: 34.01, Density: 1.11, BoilingPoint: 150.2, MeltingPoint: -0.43},
	{Name: "Potassium Permanganate", Formula: "KMnO4", CAS: "7722-64-7", HazardClass: Oxidizer, State: "solid", Unit: "g", MolecularWeight: 158.03, Density: 2.7, MeltingPoint: 240},
	{Name: "Sodium Chloride", Formula: "NaCl", CAS: "7647-14-5", HazardClass: NonHazard, State: "solid", Unit: "g", MolecularWeight: 58.44, Density: 2.16, BoilingPoint: 1465, MeltingPoint: 801},
	{Name: "Glucose", Formula: "C6H12O6", CAS: "50-99-7", HazardClass: NonHazard, State: "solid", Unit: "g", MolecularWeight: 180.16, Density: 1.54, MeltingPoint: 146},
	{Name: "Ammonia Solution", Formula: "NH3·H2O", CAS: "1336-21-6", HazardClass: Corrosive, State: "liquid", Unit: "mL", MolecularWeight: 35.05, Density: 0.91, BoilingPoint: 37.7, MeltingPoint: -57.5},
	{Name: "Phenol", Formula: "C6H5OH", CAS: "108-95-2", HazardClass: Toxic, State: "solid", Unit: "g", MolecularWeight: 94.11, Density: 1.07, BoilingPoint: 181.7, MeltingPoint: 40.5},
	{Name: "Formaldehyde", Formula: "CH2O", CAS: "50-00-0", HazardClass: Toxic, State: "liquid", Unit: "mL", MolecularWeight: 30.03, Density: 1.09, BoilingPoint: 96, MeltingPoint: -15},
	{Name: "Isopropanol", Formula: "C3H8O", CAS: "67-63-0", HazardClass: Flammable, State: "liquid", Unit: "mL", MolecularWeight: 60.10, Density: 0.786, BoilingPoint: 82.5, MeltingPoint: -89},
	{Name: "Copper Sulfate", Formula: "CuSO4", CAS: "7758-98-7", HazardClass: Irritant, State: "solid", Unit: "g", MolecularWeight: 159.61, Density: 3.6, MeltingPoint: 110},
	{Name: "Silver Nitrate", Formula: "AgNO3", CAS: "7761-88-8", HazardClass: Oxidizer, State: "solid", Unit: "g", MolecularWeight: 169.87, Density: 4.35, BoilingPoint: 440, MeltingPoint: 212},
	{Name: "Dimethyl Sulfoxide", Formula: "C2H6OS", CAS: "67-68-5", HazardClass: Irritant, State: "liquid", Unit: "mL", MolecularWeight: 78.13, Density: 1.1, BoilingPoint: 189, MeltingPoint: 19},
}
