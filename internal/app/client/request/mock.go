package request

import (
	"strings"

	"github.com/goccy/go-json"
)

type mockPatient struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone"`
	BloodGroup  string `json:"blood_group"`
	LastVisit   string `json:"last_visit"`
	Condition   string `json:"condition"`
	Status      string `json:"status"`
	AssignedDoc string `json:"assigned_doctor"`
}

type mockDoctor struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Specialization string  `json:"specialization"`
	Department     string  `json:"department"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Experience     int     `json:"experience"`
	Rating         float64 `json:"rating"`
	Available      bool    `json:"available"`
}

type mockAppointment struct {
	ID          int    `json:"id"`
	PatientName string `json:"patient_name"`
	DoctorName  string `json:"doctor_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Type        string `json:"type"`
	Status      string `json:"status"`
}

type mockMedicine struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Stock      int     `json:"stock"`
	MinStock   int     `json:"min_stock"`
	Price      float64 `json:"price"`
	Expiry     string  `json:"expiry_date"`
	Supplier   string  `json:"supplier"`
	StockLevel string  `json:"stock_level"`
}

type mockStaff struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
	Phone      string `json:"phone"`
	Shift      string `json:"shift"`
	Status     string `json:"status"`
}

type mockInvoice struct {
	ID          string  `json:"id"`
	PatientName string  `json:"patient_name"`
	Amount      float64 `json:"amount"`
	Paid        float64 `json:"paid"`
	Date        string  `json:"date"`
	DueDate     string  `json:"due_date"`
	Status      string  `json:"status"`
}

var (
	mockPatients = []mockPatient{
		{ID: 1, Name: "Rahul Sharma", Age: 45, Gender: "Male", Phone: "+91 98765 43210", BloodGroup: "B+", LastVisit: "2024-01-15", Condition: "Hypertension", Status: "active", AssignedDoc: "Dr. Priya Patel"},
		{ID: 2, Name: "Anita Desai", Age: 32, Gender: "Female", Phone: "+91 98765 43211", BloodGroup: "O+", LastVisit: "2024-01-18", Condition: "Diabetes Type 2", Status: "active", AssignedDoc: "Dr. Amit Kumar"},
		{ID: 3, Name: "Vikram Singh", Age: 58, Gender: "Male", Phone: "+91 98765 43212", BloodGroup: "A+", LastVisit: "2024-01-10", Condition: "Cardiac Arrhythmia", Status: "critical", AssignedDoc: "Dr. Priya Patel"},
		{ID: 4, Name: "Meera Iyer", Age: 27, Gender: "Female", Phone: "+91 98765 43213", BloodGroup: "AB-", LastVisit: "2024-01-20", Condition: "Migraine", Status: "discharged", AssignedDoc: "Dr. Suresh Reddy"},
	}

	mockDoctors = []mockDoctor{
		{ID: 1, Name: "Dr. Priya Patel", Specialization: "Cardiology", Department: "Cardiology", Phone: "+91 98765 00001", Email: "priya.patel@hospital.com", Experience: 15, Rating: 4.8, Available: true},
		{ID: 2, Name: "Dr. Amit Kumar", Specialization: "Endocrinology", Department: "Internal Medicine", Phone: "+91 98765 00002", Email: "amit.kumar@hospital.com", Experience: 12, Rating: 4.6, Available: true},
		{ID: 3, Name: "Dr. Suresh Reddy", Specialization: "Neurology", Department: "Neurology", Phone: "+91 98765 00003", Email: "suresh.reddy@hospital.com", Experience: 20, Rating: 4.9, Available: false},
	}

	mockAppointments = []mockAppointment{
		{ID: 1, PatientName: "Rahul Sharma", DoctorName: "Dr. Priya Patel", Date: "2024-01-25", Time: "10:00", Type: "Follow-up", Status: "scheduled"},
		{ID: 2, PatientName: "Anita Desai", DoctorName: "Dr. Amit Kumar", Date: "2024-01-25", Time: "11:30", Type: "Consultation", Status: "confirmed"},
		{ID: 3, PatientName: "Vikram Singh", DoctorName: "Dr. Priya Patel", Date: "2024-01-26", Time: "09:00", Type: "Emergency", Status: "completed"},
	}

	mockMedicines = []mockMedicine{
		{ID: 1, Name: "Paracetamol 500mg", Category: "Analgesic", Stock: 500, MinStock: 100, Price: 2.5, Expiry: "2025-06-30", Supplier: "MedSupply Co.", StockLevel: "adequate"},
		{ID: 2, Name: "Amoxicillin 250mg", Category: "Antibiotic", Stock: 45, MinStock: 50, Price: 8.75, Expiry: "2024-12-31", Supplier: "PharmaDist", StockLevel: "low"},
		{ID: 3, Name: "Metformin 500mg", Category: "Antidiabetic", Stock: 300, MinStock: 80, Price: 4.2, Expiry: "2025-03-15", Supplier: "MedSupply Co.", StockLevel: "adequate"},
		{ID: 4, Name: "Atorvastatin 10mg", Category: "Statin", Stock: 0, MinStock: 60, Price: 12, Expiry: "2025-09-01", Supplier: "HealthCorp", StockLevel: "out_of_stock"},
	}

	mockStaffMembers = []mockStaff{
		{ID: 1, Name: "Sunita Rao", Role: "nurse", Department: "ICU", Phone: "+91 98765 10001", Shift: "morning", Status: "on_duty"},
		{ID: 2, Name: "Rajesh Gupta", Role: "receptionist", Department: "Front Desk", Phone: "+91 98765 10002", Shift: "evening", Status: "on_duty"},
		{ID: 3, Name: "Kavita Nair", Role: "lab_technician", Department: "Pathology", Phone: "+91 98765 10003", Shift: "night", Status: "off_duty"},
	}

	mockInvoices = []mockInvoice{
		{ID: "INV-2024-001", PatientName: "Rahul Sharma", Amount: 15000, Paid: 15000, Date: "2024-01-15", DueDate: "2024-01-30", Status: "paid"},
		{ID: "INV-2024-002", PatientName: "Anita Desai", Amount: 8500, Paid: 4000, Date: "2024-01-18", DueDate: "2024-02-02", Status: "partial"},
		{ID: "INV-2024-003", PatientName: "Vikram Singh", Amount: 125000, Paid: 0, Date: "2024-01-10", DueDate: "2024-01-25", Status: "overdue"},
	}
)

type mockRoute struct {
	keys []string
	data any
}

// порядок важен: первое совпадение выигрывает
var mockRoutes = []mockRoute{
	{keys: []string{"patient"}, data: mockPatients},
	{keys: []string{"doctor"}, data: mockDoctors},
	{keys: []string{"appointment"}, data: mockAppointments},
	{keys: []string{"medicine", "inventory"}, data: mockMedicines},
	{keys: []string{"staff"}, data: mockStaffMembers},
	{keys: []string{"billing", "invoice"}, data: mockInvoices},
}

// MockData возвращает синтетическую коллекцию для ресурса, определяемого
// по подстроке в адресе. Для неизвестных адресов возвращается пустой массив.
func MockData(endpoint string) json.RawMessage {
	lower := strings.ToLower(endpoint)
	for _, route := range mockRoutes {
		for _, key := range route.keys {
			if !strings.Contains(lower, key) {
				continue
			}
			data, err := json.Marshal(route.data)
			if err != nil {
				return json.RawMessage("[]")
			}
			return data
		}
	}
	return json.RawMessage("[]")
}
